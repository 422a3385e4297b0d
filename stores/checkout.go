package stores

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"sweet-shop/models"
)

// CheckoutError reports a checkout that stopped at a failing line. Lines
// before it were bought and stay recorded as committed in the cart.
type CheckoutError struct {
	Committed []string
	Failed    string
	Err       error
}

func (e *CheckoutError) Error() string {
	return e.Err.Error()
}

func (e *CheckoutError) Unwrap() error {
	return e.Err
}

// Checkout turns the cart into remote purchases, one line at a time
type Checkout struct {
	api      SweetsAPI
	cart     *Cart
	catalog  *Catalog
	session  *Session
	receipts ReceiptSender
	logger   zerolog.Logger
}

// NewCheckout wires the sequencer. session and receipts may be nil, in
// which case no receipt is sent.
func NewCheckout(client SweetsAPI, cart *Cart, catalog *Catalog, session *Session, receipts ReceiptSender, logger zerolog.Logger) *Checkout {
	return &Checkout{
		api:      client,
		cart:     cart,
		catalog:  catalog,
		session:  session,
		receipts: receipts,
		logger:   logger.With().Str("store", "checkout").Logger(),
	}
}

// PurchaseCart issues one purchase per cart line in order, waiting for
// each before the next. The first failure stops the run: the catalog's
// error slot is set, the cart keeps every line and nothing is refreshed.
// Quantities bought before the failure are marked committed, so running
// PurchaseCart again only buys what is still pending. On success the
// catalog is refreshed and the cart cleared. The catalog reports loading
// until PurchaseCart returns.
func (co *Checkout) PurchaseCart(ctx context.Context) error {
	co.catalog.begin()
	defer co.catalog.end()

	lines := co.cart.Lines()
	var committed []string
	for _, line := range lines {
		pending := line.Pending()
		if pending == 0 {
			committed = append(committed, line.Sweet.ID)
			continue
		}

		if _, err := co.api.PurchaseSweet(ctx, line.Sweet.ID, pending); err != nil {
			co.logger.Error().Err(err).
				Str("sweet", line.Sweet.ID).
				Int("quantity", pending).
				Strs("committed", committed).
				Msg("Error purchasing cart")
			co.catalog.setErr(err.Error())
			return &CheckoutError{Committed: committed, Failed: line.Sweet.ID, Err: err}
		}
		co.cart.markCommitted(line.Sweet.ID, pending)
		committed = append(committed, line.Sweet.ID)
	}

	// A failed refresh records its own error; the purchases stand.
	if err := co.catalog.refresh(ctx); err != nil {
		co.logger.Warn().Err(err).Msg("Catalog refresh after checkout failed")
	}
	total := co.cart.Total()
	co.cart.Clear()

	co.sendReceipt(lines, total)
	return nil
}

func (co *Checkout) sendReceipt(lines []models.CartLine, total decimal.Decimal) {
	if co.receipts == nil || co.session == nil || len(lines) == 0 {
		return
	}
	user := co.session.User()
	if user == nil {
		return
	}
	if err := co.receipts.SendReceiptEmail(user, lines, total); err != nil {
		co.logger.Warn().Err(err).Str("user", user.Email).Msg("Receipt not sent")
	}
}
