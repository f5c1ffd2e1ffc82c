package dto

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TicketReplyRequest struct {
	Message string `json:"message"`
	Status  string `json:"status,omitempty"`
}
