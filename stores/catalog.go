package stores

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"sweet-shop/models"
)

// Sort orders accepted by Filter
const (
	SortByName      = "name"
	SortByPriceLow  = "price-low"
	SortByPriceHigh = "price-high"
	SortByQuantity  = "quantity"
)

// AllCategories matches every category in Filter
const AllCategories = "all"

// Catalog mirrors the server's sweets. Each remote operation raises the
// loading flag for its duration and clears the error slot on entry. The
// flag is advisory: operations may overlap and the last to finish wins.
type Catalog struct {
	mu     sync.RWMutex
	api    SweetsAPI
	cart   *Cart
	logger zerolog.Logger

	sweets  []models.Sweet
	loading bool
	err     string
}

// NewCatalog creates an empty catalog. Deleting a sweet also removes it from cart.
func NewCatalog(client SweetsAPI, cart *Cart, logger zerolog.Logger) *Catalog {
	return &Catalog{
		api:    client,
		cart:   cart,
		logger: logger.With().Str("store", "catalog").Logger(),
	}
}

func (c *Catalog) begin() {
	c.mu.Lock()
	c.loading = true
	c.err = ""
	c.mu.Unlock()
}

func (c *Catalog) end() {
	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()
}

func (c *Catalog) fail(msg string, err error) {
	c.logger.Error().Err(err).Msg(msg)
	c.mu.Lock()
	c.err = err.Error()
	c.mu.Unlock()
}

// Refresh replaces the collection with the server's listing. On failure
// the previous collection is kept and the error slot is set.
func (c *Catalog) Refresh(ctx context.Context) error {
	c.begin()
	defer c.end()
	return c.refresh(ctx)
}

// refresh loads the listing without touching the loading flag, for
// callers that already hold it
func (c *Catalog) refresh(ctx context.Context) error {
	sweets, err := c.api.ListSweets(ctx)
	if err != nil {
		c.fail("Error loading sweets", err)
		return err
	}

	c.mu.Lock()
	c.sweets = sweets
	c.mu.Unlock()
	return nil
}

// Create adds a sweet and appends the server's copy
func (c *Catalog) Create(ctx context.Context, draft models.SweetDraft) (models.Sweet, error) {
	c.begin()
	defer c.end()

	sweet, err := c.api.CreateSweet(ctx, draft)
	if err != nil {
		c.fail("Error adding sweet", err)
		return models.Sweet{}, err
	}

	c.mu.Lock()
	c.sweets = append(c.sweets, sweet)
	c.mu.Unlock()
	return sweet, nil
}

// Update patches a sweet and replaces the local copy with the server's
func (c *Catalog) Update(ctx context.Context, id string, patch models.SweetPatch) (models.Sweet, error) {
	c.begin()
	defer c.end()

	sweet, err := c.api.UpdateSweet(ctx, id, patch)
	if err != nil {
		c.fail("Error updating sweet", err)
		return models.Sweet{}, err
	}
	c.replace(id, sweet)
	return sweet, nil
}

// Delete removes a sweet from the server, the collection and the cart
func (c *Catalog) Delete(ctx context.Context, id string) error {
	c.begin()
	defer c.end()

	if _, err := c.api.DeleteSweet(ctx, id); err != nil {
		c.fail("Error deleting sweet", err)
		return err
	}

	c.mu.Lock()
	kept := c.sweets[:0:0]
	for _, s := range c.sweets {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	c.sweets = kept
	c.mu.Unlock()

	if c.cart != nil {
		c.cart.Remove(id)
	}
	return nil
}

// Restock adds stock to a sweet and stores the returned copy
func (c *Catalog) Restock(ctx context.Context, id string, quantity int) (models.Sweet, error) {
	c.begin()
	defer c.end()

	res, err := c.api.RestockSweet(ctx, id, quantity)
	if err != nil {
		c.fail("Error restocking sweet", err)
		return models.Sweet{}, err
	}
	c.replace(id, res.Sweet)
	return res.Sweet, nil
}

// Purchase buys quantity units of one sweet directly, outside the cart
func (c *Catalog) Purchase(ctx context.Context, id string, quantity int) (models.Sweet, error) {
	c.begin()
	defer c.end()

	res, err := c.api.PurchaseSweet(ctx, id, quantity)
	if err != nil {
		c.fail("Error purchasing sweet", err)
		return models.Sweet{}, err
	}
	c.replace(id, res.Sweet)
	return res.Sweet, nil
}

// Search asks the server for matching sweets. The collection is left as is.
func (c *Catalog) Search(ctx context.Context, params models.SearchParams) ([]models.Sweet, error) {
	c.begin()
	defer c.end()

	sweets, err := c.api.SearchSweets(ctx, params)
	if err != nil {
		c.fail("Error searching sweets", err)
		return nil, err
	}
	return sweets, nil
}

func (c *Catalog) replace(id string, sweet models.Sweet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.sweets {
		if c.sweets[i].ID == id {
			c.sweets[i] = sweet
		}
	}
}

// Items returns a copy of the collection
func (c *Catalog) Items() []models.Sweet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Sweet, len(c.sweets))
	copy(out, c.sweets)
	return out
}

// Get looks a sweet up by id
func (c *Catalog) Get(id string) (models.Sweet, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range c.sweets {
		if s.ID == id {
			return s, true
		}
	}
	return models.Sweet{}, false
}

// Loading reports whether an operation is in flight
func (c *Catalog) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Err returns the message of the last failed operation, or ""
func (c *Catalog) Err() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

func (c *Catalog) setErr(msg string) {
	c.mu.Lock()
	c.err = msg
	c.mu.Unlock()
}

// Categories returns "all" followed by the distinct categories present,
// in collection order
func (c *Catalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := []string{AllCategories}
	seen := make(map[string]bool)
	for _, s := range c.sweets {
		if !seen[s.Category] {
			seen[s.Category] = true
			out = append(out, s.Category)
		}
	}
	return out
}

// Filter returns the sweets whose name or category contains term
// (case-insensitive) and whose category equals category ("" or "all"
// match everything), ordered by sortBy. An unknown sortBy keeps
// collection order.
func (c *Catalog) Filter(term, category, sortBy string) []models.Sweet {
	term = strings.ToLower(term)
	var out []models.Sweet
	for _, s := range c.Items() {
		matchesSearch := strings.Contains(strings.ToLower(s.Name), term) ||
			strings.Contains(strings.ToLower(s.Category), term)
		matchesCategory := category == "" || category == AllCategories || s.Category == category
		if matchesSearch && matchesCategory {
			out = append(out, s)
		}
	}

	switch sortBy {
	case SortByName:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	case SortByPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	case SortByPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.GreaterThan(out[j].Price) })
	case SortByQuantity:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity < out[j].Quantity })
	}
	return out
}
