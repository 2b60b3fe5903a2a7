package dto

// TokenRequest is a development-only login: the caller names the identity
// the token should carry.
type TokenRequest struct {
	CustomerID int64  `json:"customerId" validate:"omitempty,gt=0"`
	Role       string `json:"role" validate:"omitempty,oneof=customer admin"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}
