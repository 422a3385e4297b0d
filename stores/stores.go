// Package stores holds the client-side state of the shop: the session,
// the catalog mirror, the cart and the checkout sequencer. Stores are
// created once at startup and passed to whatever renders them.
package stores

import (
	"context"

	"github.com/shopspring/decimal"

	"sweet-shop/api"
	"sweet-shop/models"
)

// AuthAPI is the part of the remote client the session needs
type AuthAPI interface {
	Register(ctx context.Context, email, password, name string) (*api.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
}

// SweetsAPI is the part of the remote client the catalog and checkout need
type SweetsAPI interface {
	ListSweets(ctx context.Context) ([]models.Sweet, error)
	SearchSweets(ctx context.Context, params models.SearchParams) ([]models.Sweet, error)
	CreateSweet(ctx context.Context, draft models.SweetDraft) (models.Sweet, error)
	UpdateSweet(ctx context.Context, id string, patch models.SweetPatch) (models.Sweet, error)
	DeleteSweet(ctx context.Context, id string) (string, error)
	PurchaseSweet(ctx context.Context, id string, quantity int) (*api.PurchaseResponse, error)
	RestockSweet(ctx context.Context, id string, quantity int) (*api.RestockResponse, error)
}

// ReceiptSender delivers a receipt after a completed checkout
type ReceiptSender interface {
	SendReceiptEmail(user *models.User, lines []models.CartLine, total decimal.Decimal) error
}

var (
	_ AuthAPI   = (*api.Client)(nil)
	_ SweetsAPI = (*api.Client)(nil)
)
