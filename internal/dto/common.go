package dto

// ErrorResponse is the shape of every user-visible failure
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// MessageResponse is a simple success acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

// DetailResponse is a success acknowledgement using the detail field
type DetailResponse struct {
	Detail string `json:"detail"`
}
