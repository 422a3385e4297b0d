package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sweet-shop/api"
	"sweet-shop/config"
	"sweet-shop/controllers"
	"sweet-shop/routes"
	"sweet-shop/storage"
)

type shellHarness struct {
	t     *testing.T
	url   string
	store storage.Storage
	out   *bytes.Buffer
	shell *Shell
}

func newHarness(t *testing.T, db *controllers.DB) *shellHarness {
	t.Helper()
	srv := httptest.NewServer(routes.NewRouter(db, zerolog.Nop()))
	t.Cleanup(srv.Close)

	h := &shellHarness{t: t, url: srv.URL + "/api", store: storage.NewMemoryStorage()}
	h.open()
	return h
}

// open builds a fresh shell over the same storage, like a restart
func (h *shellHarness) open() {
	h.out = &bytes.Buffer{}
	client := api.New(h.url, api.WithTokenStore(h.store))
	h.shell = NewShell(context.Background(), client, h.store, &config.Config{}, zerolog.Nop(), strings.NewReader(""), h.out)
}

func (h *shellHarness) exec(line string) (string, error) {
	h.t.Helper()
	h.out.Reset()
	err := h.shell.Exec(context.Background(), strings.Fields(line))
	return h.out.String(), err
}

func (h *shellHarness) mustExec(line string) string {
	h.t.Helper()
	out, err := h.exec(line)
	require.NoError(h.t, err, line)
	return out
}

func TestShell_RegisterValidatesLocally(t *testing.T) {
	h := newHarness(t, controllers.NewDB(""))

	_, err := h.exec("register ann@example.com secret1 secret2 Ann")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "match")

	_, err = h.exec("register ann@example.com abc abc Ann")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "6")

	_, err = h.exec("register ann@example.com")
	require.EqualError(t, err, "usage: register <email> <password> <confirm> <name...>")

	out := h.mustExec("register ann@example.com secret1 secret1 Ann Lee")
	assert.Contains(t, out, "Welcome, Ann Lee!")
	assert.Contains(t, out, "0 sweets loaded.")
}

func TestShell_AdminFlowAndCart(t *testing.T) {
	h := newHarness(t, controllers.NewDB(""))
	h.mustExec("register ann@example.com secret1 secret1 Ann")

	out := h.mustExec("create Dark Truffle chocolate 3.25 4")
	assert.Contains(t, out, "Created Dark Truffle")
	h.mustExec("create Sour Worms gummy 1.10 10")

	out = h.mustExec("list")
	assert.Contains(t, out, "Dark Truffle")
	assert.Contains(t, out, "4 (low)")
	assert.Contains(t, out, "$3.25")

	out = h.mustExec("list -c gummy")
	assert.Contains(t, out, "Sour Worms")
	assert.NotContains(t, out, "Dark Truffle")

	out = h.mustExec("list -s price-high truffle")
	assert.Contains(t, out, "Dark Truffle")
	assert.NotContains(t, out, "Sour Worms")

	out = h.mustExec("categories")
	assert.Equal(t, "all, chocolate, gummy\n", out)

	truffle := h.shell.catalog.Filter("truffle", "", "")[0]

	out = h.mustExec("add " + truffle.ID + " 5")
	assert.Contains(t, out, "Only 4 Dark Truffle in stock.")
	assert.Equal(t, 0, h.shell.cart.Len())

	out = h.mustExec("add " + truffle.ID[:8] + " 2")
	assert.Contains(t, out, "Added 2 x Dark Truffle ($6.50).")

	out = h.mustExec("cart")
	assert.Contains(t, out, "Total: $6.50 (2 items)")

	out = h.mustExec("checkout")
	assert.Contains(t, out, "Purchase complete. Total: $6.50")
	assert.Equal(t, 0, h.shell.cart.Len())

	got, ok := h.shell.catalog.Get(truffle.ID)
	require.True(t, ok)
	assert.Equal(t, 2, got.Quantity)

	out = h.mustExec("restock " + truffle.ID + " 8")
	assert.Contains(t, out, "now has 10 in stock")

	out = h.mustExec("update " + truffle.ID + " price 3.50")
	assert.Contains(t, out, "$3.50")

	out = h.mustExec("delete " + truffle.ID)
	assert.Contains(t, out, "Deleted Dark Truffle.")
	_, ok = h.shell.catalog.Get(truffle.ID)
	assert.False(t, ok)
}

func TestShell_CustomerCannotRunAdminCommands(t *testing.T) {
	h := newHarness(t, controllers.NewDB(""))
	h.mustExec("register admin@example.com secret1 secret1 Admin")
	h.mustExec("create Toffee cake 2.00 3")
	h.mustExec("logout")

	h.mustExec("register bob@example.com secret1 secret1 Bob")
	_, err := h.exec("create Fudge chocolate 1.00 1")
	require.EqualError(t, err, "admin only")

	out := h.mustExec("help")
	assert.NotContains(t, out, "restock")
	assert.Contains(t, out, "checkout")

	out = h.mustExec("buy " + h.shell.catalog.Items()[0].ID + " 2")
	assert.Contains(t, out, "Bought 2 x Toffee, 1 left.")

	_, err = h.exec("buy " + h.shell.catalog.Items()[0].ID + " 5")
	require.EqualError(t, err, "Insufficient stock")
}

func TestShell_SessionSurvivesRestart(t *testing.T) {
	db := controllers.NewDB("")
	db.Seed()
	h := newHarness(t, db)
	h.mustExec("register ann@example.com secret1 secret1 Ann")

	h.open()
	out := h.mustExec("whoami")
	assert.Equal(t, "Ann <ann@example.com> (admin)\n", out)
	assert.Len(t, h.shell.catalog.Items(), 6)

	h.mustExec("logout")
	h.open()
	out = h.mustExec("whoami")
	assert.Equal(t, "Not signed in.\n", out)
}

func TestShell_CartEditing(t *testing.T) {
	db := controllers.NewDB("")
	db.Seed()
	h := newHarness(t, db)

	_, err := h.exec("login nobody@example.com secret1")
	require.EqualError(t, err, "invalid email or password")

	h.mustExec("register ann@example.com secret1 secret1 Ann")
	bar := h.shell.catalog.Filter("milk", "", "")[0]
	bears := h.shell.catalog.Filter("gummy bears", "", "")[0]

	h.mustExec("add " + bar.ID + " 2")
	h.mustExec("add " + bears.ID)
	out := h.mustExec("set " + bar.ID[:8] + " 4")
	assert.Contains(t, out, "Total: $11.99 (5 items)")

	drops := h.shell.catalog.Filter("cherry drops", "", "")[0]
	require.Equal(t, 4, drops.Quantity)
	h.mustExec("add " + drops.ID + " 1")
	out = h.mustExec("set " + drops.ID + " 999")
	assert.Equal(t, "Only 4 Cherry Drops in stock.\n", out)
	line, ok := h.shell.cart.Line(drops.ID)
	require.True(t, ok)
	assert.Equal(t, 1, line.Quantity)
	out = h.mustExec("set " + drops.ID + " 4")
	assert.Contains(t, out, "Total: $15.95 (9 items)")
	h.mustExec("remove " + drops.ID)

	out = h.mustExec("set " + bar.ID + " 0")
	assert.NotContains(t, out, "Milk Chocolate Bar")
	assert.Equal(t, 1, h.shell.cart.Len())

	out = h.mustExec("remove " + bears.ID)
	assert.Equal(t, "Your cart is empty.\n", out)

	_, err = h.exec("remove " + bears.ID)
	require.Error(t, err)

	h.mustExec("add " + bears.ID + " 3")
	out = h.mustExec("clear")
	assert.Equal(t, "Cart emptied.\n", out)
	out = h.mustExec("checkout")
	assert.Equal(t, "Your cart is empty.\n", out)
}

func TestShell_UnknownCommand(t *testing.T) {
	h := newHarness(t, controllers.NewDB(""))
	_, err := h.exec("dance")
	require.EqualError(t, err, `unknown command "dance", try help`)
}

func TestShell_RunLoop(t *testing.T) {
	db := controllers.NewDB("")
	db.Seed()
	srv := httptest.NewServer(routes.NewRouter(db, zerolog.Nop()))
	defer srv.Close()

	store := storage.NewMemoryStorage()
	client := api.New(srv.URL+"/api", api.WithTokenStore(store))
	in := strings.NewReader("register ann@example.com secret1 secret1 Ann\nbogus\n\nlist -c cookie\nquit\nwhoami\n")
	var out bytes.Buffer
	sh := NewShell(context.Background(), client, store, &config.Config{}, zerolog.Nop(), in, &out)
	sh.Run(context.Background())

	text := out.String()
	assert.Contains(t, text, "sweetshop> ")
	assert.Contains(t, text, "Welcome, Ann!")
	assert.Contains(t, text, `error: unknown command "bogus"`)
	assert.Contains(t, text, "Ann [0 in cart]> ")
	assert.Contains(t, text, "Oatmeal Cookie")
	assert.Contains(t, text, "out of stock")
}
