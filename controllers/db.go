package controllers

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sweet-shop/models"
)

var (
	ErrUserExists        = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrSweetNotFound     = errors.New("sweet not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type userRecord struct {
	User     models.User
	Password string
}

// SweetFilter selects sweets in Search. Nil bounds are open.
type SweetFilter struct {
	Name     string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// DB is the in-memory data set behind the development server
type DB struct {
	mu         sync.RWMutex
	users      map[string]*userRecord
	sweets     map[string]models.Sweet
	order      []string
	adminEmail string
	now        func() time.Time
}

// NewDB creates an empty DB. The first registered user becomes an admin,
// as does any user registering with adminEmail.
func NewDB(adminEmail string) *DB {
	return &DB{
		users:      make(map[string]*userRecord),
		sweets:     make(map[string]models.Sweet),
		adminEmail: strings.ToLower(adminEmail),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (db *DB) CreateUser(email, name, passwordHash string) (models.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	key := strings.ToLower(email)
	if _, ok := db.users[key]; ok {
		return models.User{}, ErrUserExists
	}
	created := db.now()
	u := models.User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      name,
		IsAdmin:   len(db.users) == 0 || (db.adminEmail != "" && key == db.adminEmail),
		CreatedAt: &created,
	}
	db.users[key] = &userRecord{User: u, Password: passwordHash}
	return u, nil
}

// FindUser returns the user and password hash for email
func (db *DB) FindUser(email string) (models.User, string, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	rec, ok := db.users[strings.ToLower(email)]
	if !ok {
		return models.User{}, "", ErrUserNotFound
	}
	return rec.User, rec.Password, nil
}

// ListSweets returns every sweet in insertion order
func (db *DB) ListSweets() []models.Sweet {
	return db.Search(SweetFilter{})
}

func (db *DB) Search(f SweetFilter) []models.Sweet {
	db.mu.RLock()
	defer db.mu.RUnlock()

	name := strings.ToLower(f.Name)
	out := []models.Sweet{}
	for _, id := range db.order {
		s := db.sweets[id]
		if name != "" && !strings.Contains(strings.ToLower(s.Name), name) {
			continue
		}
		if f.Category != "" && s.Category != f.Category {
			continue
		}
		if f.MinPrice != nil && s.Price.LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && s.Price.GreaterThan(*f.MaxPrice) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (db *DB) InsertSweet(d models.SweetDraft) models.Sweet {
	db.mu.Lock()
	defer db.mu.Unlock()
	now := db.now()
	s := models.Sweet{
		ID:        uuid.NewString(),
		Name:      d.Name,
		Category:  d.Category,
		Price:     d.Price,
		Quantity:  d.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	db.sweets[s.ID] = s
	db.order = append(db.order, s.ID)
	return s
}

func (db *DB) UpdateSweet(id string, p models.SweetPatch) (models.Sweet, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	s, ok := db.sweets[id]
	if !ok {
		return models.Sweet{}, ErrSweetNotFound
	}
	p.Apply(&s)
	s.UpdatedAt = db.now()
	db.sweets[id] = s
	return s, nil
}

func (db *DB) DeleteSweet(id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.sweets[id]; !ok {
		return ErrSweetNotFound
	}
	delete(db.sweets, id)
	for i, v := range db.order {
		if v == id {
			db.order = append(db.order[:i], db.order[i+1:]...)
			break
		}
	}
	return nil
}

// AdjustStock adds delta to a sweet's quantity. Stock never goes below zero.
func (db *DB) AdjustStock(id string, delta int) (models.Sweet, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	s, ok := db.sweets[id]
	if !ok {
		return models.Sweet{}, ErrSweetNotFound
	}
	if s.Quantity+delta < 0 {
		return models.Sweet{}, ErrInsufficientStock
	}
	s.Quantity += delta
	s.UpdatedAt = db.now()
	db.sweets[id] = s
	return s, nil
}

// Seed inserts a small demo inventory
func (db *DB) Seed() {
	for _, d := range []models.SweetDraft{
		{Name: "Milk Chocolate Bar", Category: models.CategoryChocolate, Price: decimal.RequireFromString("2.50"), Quantity: 40},
		{Name: "Gummy Bears", Category: models.CategoryGummy, Price: decimal.RequireFromString("1.99"), Quantity: 60},
		{Name: "Cherry Drops", Category: models.CategoryHardCandy, Price: decimal.RequireFromString("0.99"), Quantity: 4},
		{Name: "Rainbow Swirl", Category: models.CategoryLollipop, Price: decimal.RequireFromString("1.25"), Quantity: 25},
		{Name: "Red Velvet Slice", Category: models.CategoryCake, Price: decimal.RequireFromString("4.75"), Quantity: 8},
		{Name: "Oatmeal Cookie", Category: models.CategoryCookie, Price: decimal.RequireFromString("1.50"), Quantity: 0},
	} {
		db.InsertSweet(d)
	}
}
