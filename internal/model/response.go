package model

// ErrorResponse is the body of every JSON error the API returns.
type ErrorResponse struct {
	Error string `json:"error"`
}
