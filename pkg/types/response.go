package types

type SuccessEnvelope struct {
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope repeats the human readable message at the top level so
// clients that only look for "message" can still show it.
type ErrorEnvelope struct {
	Message string   `json:"message"`
	Error   APIError `json:"error"`
}
