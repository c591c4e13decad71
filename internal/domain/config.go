package domain

// Config is the subset of application configuration the services need.
type Config struct {
	SessionSecret   string `yaml:"sessionSecret"`
	SessionTTLHours int    `yaml:"sessionTTLHours"`
}
