package dto

type AdminUserDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResponse accepts the token at the top level or nested under data.
type LoginResponse struct {
	Token string        `json:"token"`
	User  *AdminUserDTO `json:"user,omitempty"`
}
