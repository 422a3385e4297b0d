package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"sweet-shop/api"
	"sweet-shop/models"
)

// SweetController handles inventory requests
type SweetController struct {
	DB     *DB
	Logger zerolog.Logger
}

// NewSweetController creates a new SweetController
func NewSweetController(db *DB, logger zerolog.Logger) *SweetController {
	return &SweetController{DB: db, Logger: logger}
}

// GetSweets retrieves all sweets
func (sc *SweetController) GetSweets(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, api.SweetsResponse{
		Message: "Sweets retrieved successfully",
		Sweets:  sc.DB.ListSweets(),
	})
}

// SearchSweets filters by name, category and price range
func (sc *SweetController) SearchSweets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := SweetFilter{
		Name:     q.Get("name"),
		Category: q.Get("category"),
	}
	for key, dst := range map[string]**decimal.Decimal{"minPrice": &filter.MinPrice, "maxPrice": &filter.MaxPrice} {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid "+key)
			return
		}
		*dst = &d
	}

	WriteJSON(w, http.StatusOK, api.SweetsResponse{
		Message: "Search completed successfully",
		Sweets:  sc.DB.Search(filter),
	})
}

func validateSweet(name, category *string, price *decimal.Decimal, quantity *int) string {
	if name != nil && strings.TrimSpace(*name) == "" {
		return "Name is required"
	}
	if category != nil && !models.ValidCategory(*category) {
		return "Invalid category"
	}
	if price != nil && price.IsNegative() {
		return "Price must not be negative"
	}
	if quantity != nil && *quantity < 0 {
		return "Quantity must not be negative"
	}
	return ""
}

// CreateSweet handles adding a new sweet (Admin only)
func (sc *SweetController) CreateSweet(w http.ResponseWriter, r *http.Request) {
	var draft models.SweetDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if msg := validateSweet(&draft.Name, &draft.Category, &draft.Price, &draft.Quantity); msg != "" {
		WriteError(w, http.StatusBadRequest, msg)
		return
	}

	sweet := sc.DB.InsertSweet(draft)
	sc.Logger.Info().Str("id", sweet.ID).Str("name", sweet.Name).Msg("sweet created")
	WriteJSON(w, http.StatusCreated, api.SweetResponse{Message: "Sweet created successfully", Sweet: sweet})
}

// UpdateSweet handles updating a sweet (Admin only)
func (sc *SweetController) UpdateSweet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var patch models.SweetPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if msg := validateSweet(patch.Name, patch.Category, patch.Price, patch.Quantity); msg != "" {
		WriteError(w, http.StatusBadRequest, msg)
		return
	}

	sweet, err := sc.DB.UpdateSweet(id, patch)
	if errors.Is(err, ErrSweetNotFound) {
		WriteError(w, http.StatusNotFound, "Sweet not found")
		return
	}
	WriteJSON(w, http.StatusOK, api.SweetResponse{Message: "Sweet updated successfully", Sweet: sweet})
}

// DeleteSweet handles deleting a sweet (Admin only)
func (sc *SweetController) DeleteSweet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := sc.DB.DeleteSweet(id); err != nil {
		WriteError(w, http.StatusNotFound, "Sweet not found")
		return
	}
	sc.Logger.Info().Str("id", id).Msg("sweet deleted")
	WriteJSON(w, http.StatusOK, api.MessageResponse{Message: "Sweet deleted successfully"})
}

func decodeQuantity(r *http.Request) (int, string) {
	var req api.QuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return 0, "Invalid input"
	}
	if req.Quantity <= 0 {
		return 0, "Quantity must be a positive integer"
	}
	return req.Quantity, ""
}

// PurchaseSweet takes quantity units out of stock
func (sc *SweetController) PurchaseSweet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	qty, msg := decodeQuantity(r)
	if msg != "" {
		WriteError(w, http.StatusBadRequest, msg)
		return
	}

	sweet, err := sc.DB.AdjustStock(id, -qty)
	switch {
	case errors.Is(err, ErrSweetNotFound):
		WriteError(w, http.StatusNotFound, "Sweet not found")
		return
	case errors.Is(err, ErrInsufficientStock):
		WriteError(w, http.StatusBadRequest, "Insufficient stock")
		return
	}

	WriteJSON(w, http.StatusOK, api.PurchaseResponse{
		Message:           "Purchase successful",
		Sweet:             sweet,
		PurchasedQuantity: qty,
	})
}

// RestockSweet adds quantity units to stock (Admin only)
func (sc *SweetController) RestockSweet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	qty, msg := decodeQuantity(r)
	if msg != "" {
		WriteError(w, http.StatusBadRequest, msg)
		return
	}

	sweet, err := sc.DB.AdjustStock(id, qty)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Sweet not found")
		return
	}

	WriteJSON(w, http.StatusOK, api.RestockResponse{
		Message:           "Restock successful",
		Sweet:             sweet,
		RestockedQuantity: qty,
	})
}
