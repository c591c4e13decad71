package domain

// User is a dashboard account. Password holds the bcrypt hash, never
// the plaintext secret.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"-"`
}
