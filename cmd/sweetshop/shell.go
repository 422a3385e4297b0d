package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"sweet-shop/api"
	"sweet-shop/config"
	"sweet-shop/models"
	"sweet-shop/storage"
	"sweet-shop/stores"
)

var errUsage = errors.New("usage")

type command struct {
	usage string
	help  string
	admin bool
	run   func(ctx context.Context, args []string) error
}

// Shell dispatches text commands to the stores and renders their state
type Shell struct {
	session  *stores.Session
	cart     *stores.Cart
	catalog  *stores.Catalog
	checkout *stores.Checkout

	in       io.Reader
	out      io.Writer
	commands map[string]command
}

// NewShell builds every store around client and restores any saved session
func NewShell(ctx context.Context, client *api.Client, store storage.Storage, cfg *config.Config, logger zerolog.Logger, in io.Reader, out io.Writer) *Shell {
	session := stores.NewSession(ctx, client, store, logger)
	cart := stores.NewCart()
	catalog := stores.NewCatalog(client, cart, logger)
	sh := &Shell{
		session:  session,
		cart:     cart,
		catalog:  catalog,
		checkout: stores.NewCheckout(client, cart, catalog, session, receiptSender(cfg, logger), logger),
		in:       in,
		out:      out,
	}
	sh.commands = sh.table()
	if session.Authenticated() {
		if err := catalog.Refresh(ctx); err != nil {
			logger.Warn().Err(err).Msg("initial catalog load failed")
		}
	}
	return sh
}

func (sh *Shell) table() map[string]command {
	return map[string]command{
		"help":       {usage: "help", help: "list commands", run: sh.help},
		"register":   {usage: "register <email> <password> <confirm> <name...>", help: "create an account", run: sh.register},
		"login":      {usage: "login <email> <password>", help: "sign in", run: sh.login},
		"logout":     {usage: "logout", help: "sign out", run: sh.logout},
		"whoami":     {usage: "whoami", help: "show the signed in user", run: sh.whoami},
		"refresh":    {usage: "refresh", help: "reload sweets from the server", run: sh.refresh},
		"list":       {usage: "list [-c category] [-s name|price-low|price-high|quantity] [term]", help: "show sweets", run: sh.list},
		"categories": {usage: "categories", help: "list categories in the catalog", run: sh.categories},
		"search":     {usage: "search [name=..] [category=..] [min=..] [max=..]", help: "search on the server", run: sh.search},
		"add":        {usage: "add <id> [quantity]", help: "put a sweet in the cart", run: sh.add},
		"set":        {usage: "set <id> <quantity>", help: "change a cart quantity, up to the stock (0 removes)", run: sh.set},
		"remove":     {usage: "remove <id>", help: "drop a sweet from the cart", run: sh.remove},
		"clear":      {usage: "clear", help: "empty the cart", run: sh.clear},
		"cart":       {usage: "cart", help: "show the cart", run: sh.showCart},
		"checkout":   {usage: "checkout", help: "purchase everything in the cart", run: sh.purchaseCart},
		"buy":        {usage: "buy <id> [quantity]", help: "purchase one sweet directly", run: sh.buy},
		"create":     {usage: "create <name...> <category> <price> <quantity>", help: "add a sweet", admin: true, run: sh.create},
		"update":     {usage: "update <id> <name|category|price|quantity> <value...>", help: "edit a sweet", admin: true, run: sh.update},
		"delete":     {usage: "delete <id>", help: "delete a sweet", admin: true, run: sh.delete},
		"restock":    {usage: "restock <id> <quantity>", help: "add stock", admin: true, run: sh.restock},
	}
}

// Run reads commands line by line until EOF, "quit" or ctx is done
func (sh *Shell) Run(ctx context.Context) {
	scanner := bufio.NewScanner(sh.in)
	for {
		fmt.Fprint(sh.out, sh.prompt())
		if !scanner.Scan() || ctx.Err() != nil {
			fmt.Fprintln(sh.out)
			return
		}
		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			continue
		}
		if args[0] == "quit" || args[0] == "exit" {
			return
		}
		if err := sh.Exec(ctx, args); err != nil {
			fmt.Fprintln(sh.out, "error:", err)
		}
	}
}

func (sh *Shell) prompt() string {
	if u := sh.session.User(); u != nil {
		return fmt.Sprintf("%s [%d in cart]> ", u.Name, sh.cart.Count())
	}
	return "sweetshop> "
}

// Exec runs a single command
func (sh *Shell) Exec(ctx context.Context, args []string) error {
	cmd, ok := sh.commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q, try help", args[0])
	}
	if cmd.admin && !sh.session.IsAdmin() {
		return errors.New("admin only")
	}
	err := cmd.run(ctx, args[1:])
	if errors.Is(err, errUsage) {
		return fmt.Errorf("usage: %s", cmd.usage)
	}
	return err
}

func (sh *Shell) help(context.Context, []string) error {
	names := make([]string, 0, len(sh.commands))
	for name := range sh.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cmd := sh.commands[name]
		if cmd.admin && !sh.session.IsAdmin() {
			continue
		}
		fmt.Fprintf(sh.out, "  %-60s %s\n", cmd.usage, cmd.help)
	}
	return nil
}

func (sh *Shell) register(ctx context.Context, args []string) error {
	if len(args) < 4 {
		return errUsage
	}
	if err := stores.ValidateRegistration(args[1], args[2]); err != nil {
		return err
	}
	if !sh.session.Register(ctx, args[0], args[1], strings.Join(args[3:], " ")) {
		return errors.New("registration failed, please try again")
	}
	fmt.Fprintf(sh.out, "Welcome, %s!\n", sh.session.User().Name)
	return sh.refresh(ctx, nil)
}

func (sh *Shell) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	if !sh.session.Login(ctx, args[0], args[1]) {
		return errors.New("invalid email or password")
	}
	fmt.Fprintf(sh.out, "Welcome back, %s!\n", sh.session.User().Name)
	return sh.refresh(ctx, nil)
}

func (sh *Shell) logout(ctx context.Context, _ []string) error {
	sh.session.Logout(ctx)
	fmt.Fprintln(sh.out, "Signed out.")
	return nil
}

func (sh *Shell) whoami(context.Context, []string) error {
	u := sh.session.User()
	if u == nil {
		fmt.Fprintln(sh.out, "Not signed in.")
		return nil
	}
	role := "customer"
	if u.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(sh.out, "%s <%s> (%s)\n", u.Name, u.Email, role)
	return nil
}

func (sh *Shell) refresh(ctx context.Context, _ []string) error {
	if err := sh.catalog.Refresh(ctx); err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "%d sweets loaded.\n", len(sh.catalog.Items()))
	return nil
}

func (sh *Shell) list(_ context.Context, args []string) error {
	var category, sortBy string
	var terms []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-c", "-s":
			if i+1 >= len(args) {
				return errUsage
			}
			if args[i] == "-c" {
				category = args[i+1]
			} else {
				sortBy = args[i+1]
			}
			i++
		default:
			terms = append(terms, args[i])
		}
	}
	if msg := sh.catalog.Err(); msg != "" {
		fmt.Fprintln(sh.out, "warning:", msg)
	}
	renderSweets(sh.out, sh.catalog.Filter(strings.Join(terms, " "), category, sortBy))
	return nil
}

func (sh *Shell) categories(context.Context, []string) error {
	fmt.Fprintln(sh.out, strings.Join(sh.catalog.Categories(), ", "))
	return nil
}

func (sh *Shell) search(ctx context.Context, args []string) error {
	var params models.SearchParams
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return errUsage
		}
		switch key {
		case "name":
			params.Name = value
		case "category":
			params.Category = value
		case "min", "max":
			d, err := decimal.NewFromString(value)
			if err != nil {
				return fmt.Errorf("invalid price %q", value)
			}
			if key == "min" {
				params.MinPrice = d
			} else {
				params.MaxPrice = d
			}
		default:
			return errUsage
		}
	}
	sweets, err := sh.catalog.Search(ctx, params)
	if err != nil {
		return err
	}
	renderSweets(sh.out, sweets)
	return nil
}

// resolve finds a sweet by id or unique id prefix
func (sh *Shell) resolve(ref string) (models.Sweet, error) {
	if s, ok := sh.catalog.Get(ref); ok {
		return s, nil
	}
	var found []models.Sweet
	for _, s := range sh.catalog.Items() {
		if strings.HasPrefix(s.ID, ref) {
			found = append(found, s)
		}
	}
	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return models.Sweet{}, fmt.Errorf("no sweet matches %q", ref)
	default:
		return models.Sweet{}, fmt.Errorf("%q matches %d sweets", ref, len(found))
	}
}

// resolveCartID finds a cart line by id or unique id prefix
func (sh *Shell) resolveCartID(ref string) (string, error) {
	var found []string
	for _, l := range sh.cart.Lines() {
		if l.Sweet.ID == ref {
			return ref, nil
		}
		if strings.HasPrefix(l.Sweet.ID, ref) {
			found = append(found, l.Sweet.ID)
		}
	}
	if len(found) != 1 {
		return "", fmt.Errorf("no single cart line matches %q", ref)
	}
	return found[0], nil
}

func quantityArg(args []string, i int, def int) (int, error) {
	if len(args) <= i {
		return def, nil
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q", args[i])
	}
	return n, nil
}

func (sh *Shell) add(_ context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errUsage
	}
	s, err := sh.resolve(args[0])
	if err != nil {
		return err
	}
	qty, err := quantityArg(args, 1, 1)
	if err != nil {
		return err
	}
	if !sh.cart.Add(s, qty) {
		fmt.Fprintf(sh.out, "Only %d %s in stock.\n", s.Quantity, s.Name)
		return nil
	}
	fmt.Fprintf(sh.out, "Added %d x %s ($%s).\n", qty, s.Name, s.Price.Mul(decimal.NewFromInt(int64(qty))).StringFixed(2))
	return nil
}

func (sh *Shell) set(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	id, err := sh.resolveCartID(args[0])
	if err != nil {
		return err
	}
	qty, err := quantityArg(args, 1, 0)
	if err != nil {
		return err
	}
	if line, ok := sh.cart.Line(id); ok && qty > line.Sweet.Quantity {
		fmt.Fprintf(sh.out, "Only %d %s in stock.\n", line.Sweet.Quantity, line.Sweet.Name)
		return nil
	}
	sh.cart.UpdateQuantity(id, qty)
	return sh.showCart(ctx, nil)
}

func (sh *Shell) remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	id, err := sh.resolveCartID(args[0])
	if err != nil {
		return err
	}
	sh.cart.Remove(id)
	return sh.showCart(ctx, nil)
}

func (sh *Shell) clear(context.Context, []string) error {
	sh.cart.Clear()
	fmt.Fprintln(sh.out, "Cart emptied.")
	return nil
}

func (sh *Shell) showCart(context.Context, []string) error {
	renderCart(sh.out, sh.cart.Lines(), sh.cart.Total(), sh.cart.Count())
	return nil
}

func (sh *Shell) purchaseCart(ctx context.Context, _ []string) error {
	if sh.cart.Len() == 0 {
		fmt.Fprintln(sh.out, "Your cart is empty.")
		return nil
	}
	total := sh.cart.Total()
	if err := sh.checkout.PurchaseCart(ctx); err != nil {
		var coErr *stores.CheckoutError
		if errors.As(err, &coErr) && len(coErr.Committed) > 0 {
			fmt.Fprintf(sh.out, "%d line(s) were purchased before the failure; run checkout again to retry the rest.\n", len(coErr.Committed))
		}
		return err
	}
	fmt.Fprintf(sh.out, "Purchase complete. Total: $%s\n", total.StringFixed(2))
	return nil
}

func (sh *Shell) buy(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errUsage
	}
	s, err := sh.resolve(args[0])
	if err != nil {
		return err
	}
	qty, err := quantityArg(args, 1, 1)
	if err != nil {
		return err
	}
	updated, err := sh.catalog.Purchase(ctx, s.ID, qty)
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Bought %d x %s, %d left.\n", qty, updated.Name, updated.Quantity)
	return nil
}

func (sh *Shell) create(ctx context.Context, args []string) error {
	if len(args) < 4 {
		return errUsage
	}
	n := len(args)
	price, err := decimal.NewFromString(args[n-2])
	if err != nil {
		return fmt.Errorf("invalid price %q", args[n-2])
	}
	qty, err := quantityArg(args, n-1, 0)
	if err != nil {
		return err
	}
	s, err := sh.catalog.Create(ctx, models.SweetDraft{
		Name:     strings.Join(args[:n-3], " "),
		Category: args[n-3],
		Price:    price,
		Quantity: qty,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Created %s (%s).\n", s.Name, s.ID)
	return nil
}

func (sh *Shell) update(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return errUsage
	}
	s, err := sh.resolve(args[0])
	if err != nil {
		return err
	}
	value := strings.Join(args[2:], " ")

	var patch models.SweetPatch
	switch args[1] {
	case "name":
		patch.Name = &value
	case "category":
		patch.Category = &value
	case "price":
		d, err := decimal.NewFromString(value)
		if err != nil {
			return fmt.Errorf("invalid price %q", value)
		}
		patch.Price = &d
	case "quantity":
		q, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid quantity %q", value)
		}
		patch.Quantity = &q
	default:
		return errUsage
	}

	updated, err := sh.catalog.Update(ctx, s.ID, patch)
	if err != nil {
		return err
	}
	renderSweets(sh.out, []models.Sweet{updated})
	return nil
}

func (sh *Shell) delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	s, err := sh.resolve(args[0])
	if err != nil {
		return err
	}
	if err := sh.catalog.Delete(ctx, s.ID); err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Deleted %s.\n", s.Name)
	return nil
}

func (sh *Shell) restock(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	s, err := sh.resolve(args[0])
	if err != nil {
		return err
	}
	qty, err := quantityArg(args, 1, 0)
	if err != nil {
		return err
	}
	updated, err := sh.catalog.Restock(ctx, s.ID, qty)
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "%s now has %d in stock.\n", updated.Name, updated.Quantity)
	return nil
}
