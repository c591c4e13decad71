package domain

// State is the structured outcome of a failed mutation attempt: field
// errors keyed by form field name plus an optional top-level message.
// It lives for the duration of one request and is never persisted.
type State struct {
	Errors  map[string][]string `json:"errors,omitempty"`
	Message string              `json:"message,omitempty"`
}

// RevalidationEvent announces that all cached views under Path went
// stale because of a write.
type RevalidationEvent struct {
	Path      string `json:"path"`
	Timestamp int64  `json:"timestamp"`
}
