package stores

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/shopspring/decimal"

	"sweet-shop/api"
	"sweet-shop/models"
)

// fakeAPI is an in-memory stand-in for the remote client
type fakeAPI struct {
	mu sync.Mutex

	sweets    []models.Sweet
	users     map[string]models.User
	passwords map[string]string
	token     string

	purchases []string
	failList  error
	failOn    map[string]error // keyed by "<op>:<id>"
	calls     int
	lists     int
}

func newFakeAPI(sweets ...models.Sweet) *fakeAPI {
	return &fakeAPI{
		sweets:    sweets,
		users:     make(map[string]models.User),
		passwords: make(map[string]string),
		token:     "opaque-token",
		failOn:    make(map[string]error),
	}
}

func sweet(id, name, category, price string, qty int) models.Sweet {
	return models.Sweet{ID: id, Name: name, Category: category, Price: decimal.RequireFromString(price), Quantity: qty}
}

func apiErr(status int, msg string) error {
	return &api.Error{Status: status, Message: msg}
}

func (f *fakeAPI) Register(_ context.Context, email, password, name string) (*api.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if _, ok := f.users[email]; ok {
		return nil, apiErr(http.StatusBadRequest, "User already exists")
	}
	u := models.User{ID: fmt.Sprintf("u%d", len(f.users)+1), Email: email, Name: name, IsAdmin: len(f.users) == 0}
	f.users[email] = u
	f.passwords[email] = password
	return &api.AuthResponse{Message: "User registered successfully", User: u, Token: f.token}, nil
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (*api.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	u, ok := f.users[email]
	if !ok || f.passwords[email] != password {
		return nil, apiErr(http.StatusUnauthorized, "Invalid credentials")
	}
	return &api.AuthResponse{Message: "Login successful", User: u, Token: f.token}, nil
}

func (f *fakeAPI) ListSweets(context.Context) ([]models.Sweet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lists++
	if f.failList != nil {
		return nil, f.failList
	}
	out := make([]models.Sweet, len(f.sweets))
	copy(out, f.sweets)
	return out, nil
}

func (f *fakeAPI) SearchSweets(_ context.Context, p models.SearchParams) ([]models.Sweet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	var out []models.Sweet
	for _, s := range f.sweets {
		if p.Category == "" || p.Category == s.Category {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeAPI) CreateSweet(_ context.Context, d models.SweetDraft) (models.Sweet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.failOn["create:"]; err != nil {
		return models.Sweet{}, err
	}
	s := models.Sweet{ID: fmt.Sprintf("s%d", len(f.sweets)+1), Name: d.Name, Category: d.Category, Price: d.Price, Quantity: d.Quantity}
	f.sweets = append(f.sweets, s)
	return s, nil
}

func (f *fakeAPI) index(id string) int {
	for i, s := range f.sweets {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (f *fakeAPI) UpdateSweet(_ context.Context, id string, p models.SweetPatch) (models.Sweet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.failOn["update:"+id]; err != nil {
		return models.Sweet{}, err
	}
	i := f.index(id)
	if i < 0 {
		return models.Sweet{}, apiErr(http.StatusNotFound, "Sweet not found")
	}
	p.Apply(&f.sweets[i])
	return f.sweets[i], nil
}

func (f *fakeAPI) DeleteSweet(_ context.Context, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.failOn["delete:"+id]; err != nil {
		return "", err
	}
	i := f.index(id)
	if i < 0 {
		return "", apiErr(http.StatusNotFound, "Sweet not found")
	}
	f.sweets = append(f.sweets[:i], f.sweets[i+1:]...)
	return "Sweet deleted successfully", nil
}

func (f *fakeAPI) PurchaseSweet(_ context.Context, id string, qty int) (*api.PurchaseResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.failOn["purchase:"+id]; err != nil {
		return nil, err
	}
	i := f.index(id)
	if i < 0 {
		return nil, apiErr(http.StatusNotFound, "Sweet not found")
	}
	if f.sweets[i].Quantity < qty {
		return nil, apiErr(http.StatusBadRequest, "Insufficient stock")
	}
	f.sweets[i].Quantity -= qty
	f.purchases = append(f.purchases, fmt.Sprintf("%s:%d", id, qty))
	return &api.PurchaseResponse{Sweet: f.sweets[i], PurchasedQuantity: qty}, nil
}

func (f *fakeAPI) RestockSweet(_ context.Context, id string, qty int) (*api.RestockResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	i := f.index(id)
	if i < 0 {
		return nil, apiErr(http.StatusNotFound, "Sweet not found")
	}
	f.sweets[i].Quantity += qty
	return &api.RestockResponse{Sweet: f.sweets[i], RestockedQuantity: qty}, nil
}

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeAPI) listCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists
}
