package api

import (
	"context"
	"net/http"
	"net/url"

	"sweet-shop/models"
)

func sweetPath(id string, suffix string) string {
	return "/sweets/" + url.PathEscape(id) + suffix
}

// ListSweets calls GET /sweets
func (c *Client) ListSweets(ctx context.Context) ([]models.Sweet, error) {
	var out SweetsResponse
	if err := c.do(ctx, http.MethodGet, "/sweets", nil, &out); err != nil {
		return nil, err
	}
	return out.Sweets, nil
}

// SearchSweets calls GET /sweets/search. Empty and zero parameters are omitted.
func (c *Client) SearchSweets(ctx context.Context, params models.SearchParams) ([]models.Sweet, error) {
	q := url.Values{}
	if params.Name != "" {
		q.Set("name", params.Name)
	}
	if params.Category != "" {
		q.Set("category", params.Category)
	}
	if !params.MinPrice.IsZero() {
		q.Set("minPrice", params.MinPrice.String())
	}
	if !params.MaxPrice.IsZero() {
		q.Set("maxPrice", params.MaxPrice.String())
	}

	var out SweetsResponse
	if err := c.do(ctx, http.MethodGet, "/sweets/search?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Sweets, nil
}

// CreateSweet calls POST /sweets
func (c *Client) CreateSweet(ctx context.Context, draft models.SweetDraft) (models.Sweet, error) {
	var out SweetResponse
	if err := c.do(ctx, http.MethodPost, "/sweets", draft, &out); err != nil {
		return models.Sweet{}, err
	}
	return out.Sweet, nil
}

// UpdateSweet calls PUT /sweets/{id} with only the fields set in patch
func (c *Client) UpdateSweet(ctx context.Context, id string, patch models.SweetPatch) (models.Sweet, error) {
	var out SweetResponse
	if err := c.do(ctx, http.MethodPut, sweetPath(id, ""), patch, &out); err != nil {
		return models.Sweet{}, err
	}
	return out.Sweet, nil
}

// DeleteSweet calls DELETE /sweets/{id}
func (c *Client) DeleteSweet(ctx context.Context, id string) (string, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodDelete, sweetPath(id, ""), nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// PurchaseSweet calls POST /sweets/{id}/purchase
func (c *Client) PurchaseSweet(ctx context.Context, id string, quantity int) (*PurchaseResponse, error) {
	var out PurchaseResponse
	if err := c.do(ctx, http.MethodPost, sweetPath(id, "/purchase"), QuantityRequest{Quantity: quantity}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RestockSweet calls POST /sweets/{id}/restock
func (c *Client) RestockSweet(ctx context.Context, id string, quantity int) (*RestockResponse, error) {
	var out RestockResponse
	if err := c.do(ctx, http.MethodPost, sweetPath(id, "/restock"), QuantityRequest{Quantity: quantity}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
