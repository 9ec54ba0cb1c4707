package types

// SuccessEnvelope wraps every successful JSON API payload.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public shape of a failed request.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
	Details   any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps APIError under "error".
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
