package models

// MessageResponse is the generic {"message": ...} body returned by deletes.
type MessageResponse struct {
	Message string `json:"message"`
}
