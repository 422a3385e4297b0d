package api

import (
	"sweet-shop/models"
)

// MessageResponse is the body of DELETE responses and of every error
type MessageResponse struct {
	Message string `json:"message"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Message string      `json:"message"`
	User    models.User `json:"user"`
	Token   string      `json:"token"`
}

// SweetsResponse is returned by list and search
type SweetsResponse struct {
	Message string         `json:"message"`
	Sweets  []models.Sweet `json:"sweets"`
}

// SweetResponse is returned by create and update
type SweetResponse struct {
	Message string       `json:"message"`
	Sweet   models.Sweet `json:"sweet"`
}

// PurchaseResponse is returned by purchase
type PurchaseResponse struct {
	Message           string       `json:"message"`
	Sweet             models.Sweet `json:"sweet"`
	PurchasedQuantity int          `json:"purchasedQuantity"`
}

// RestockResponse is returned by restock
type RestockResponse struct {
	Message           string       `json:"message"`
	Sweet             models.Sweet `json:"sweet"`
	RestockedQuantity int          `json:"restockedQuantity"`
}

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// QuantityRequest is the body of purchase and restock
type QuantityRequest struct {
	Quantity int `json:"quantity"`
}
