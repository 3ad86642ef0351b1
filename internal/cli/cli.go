// Package cli implements the interactive storefront session: a line-based
// command loop over the catalog client, the cart store, and the checkout
// service. It is presentation glue; every decision that matters lives in
// the packages it calls.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	cartstore "github.com/xenking/storefront-client/internal/cart"
	"github.com/xenking/storefront-client/internal/catalog"
	"github.com/xenking/storefront-client/internal/checkout"
	"github.com/xenking/storefront-client/internal/domain/order"
	"github.com/xenking/storefront-client/internal/domain/product"
	"github.com/xenking/storefront-client/internal/identity"
	"github.com/xenking/storefront-client/pkg/health"
)

// errExit signals a clean end of the session from a command.
var errExit = errors.New("exit")

// Deps carries everything a Session needs. In and Out default to stdin
// and stdout.
type Deps struct {
	Logger   *zap.Logger
	Catalog  *catalog.Client
	Cache    *catalog.Cache
	Carts    *cartstore.Store
	Identity *identity.SessionProvider
	Checkout *checkout.Service
	Monitor  *health.Monitor
	Currency string
	In       io.Reader
	Out      io.Writer
}

// Session is one interactive client session.
type Session struct {
	deps Deps
	in   *bufio.Scanner
	out  io.Writer
}

// New creates a Session over the given dependencies.
func New(deps Deps) *Session {
	if deps.In == nil {
		deps.In = os.Stdin
	}
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	return &Session{
		deps: deps,
		in:   bufio.NewScanner(deps.In),
		out:  deps.Out,
	}
}

// Run reads commands until EOF, `exit`, or context cancellation.
func (s *Session) Run(ctx context.Context) error {
	s.printf("storefront — type 'help' for commands\n")
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		s.printf("> ")
		if !s.in.Scan() {
			return s.in.Err()
		}
		line := strings.TrimSpace(s.in.Text())
		if line == "" {
			continue
		}
		if err := s.dispatch(ctx, line); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			s.printf("error: %v\n", err)
		}
	}
}

// dispatch runs one command, recovering from panics so a rendering bug
// cannot take down the session (and the in-memory cart with it).
func (s *Session) dispatch(ctx context.Context, line string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			s.deps.Logger.Error("Panic in command",
				zap.Any("panic", rec),
				zap.Stack("stack"),
			)
			err = errors.Errorf("internal error: %v", rec)
		}
	}()

	cmd, args := splitCommand(line)
	switch cmd {
	case "help":
		s.printHelp()
		return nil
	case "products":
		return s.cmdProducts(ctx, args)
	case "search":
		return s.cmdSearch(ctx, args)
	case "show":
		return s.cmdShow(ctx, args)
	case "add":
		return s.cmdAdd(ctx, args)
	case "remove":
		return s.cmdRemove(args)
	case "qty":
		return s.cmdQty(args)
	case "cart":
		s.printCart()
		return nil
	case "clear":
		s.deps.Carts.Clear()
		s.printf("cart cleared\n")
		return nil
	case "login":
		return s.cmdLogin(args)
	case "logout":
		return s.cmdLogout()
	case "whoami":
		s.cmdWhoami()
		return nil
	case "checkout":
		return s.cmdCheckout(ctx)
	case "orders":
		return s.cmdOrders(ctx)
	case "order":
		return s.cmdOrder(ctx, args)
	case "status":
		s.cmdStatus()
		return nil
	case "exit", "quit":
		return errExit
	default:
		return errors.Errorf("unknown command %q, try 'help'", cmd)
	}
}

func splitCommand(line string) (cmd string, args []string) {
	fields := strings.Fields(line)
	return fields[0], fields[1:]
}

func (s *Session) printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}

func (s *Session) printHelp() {
	s.printf(`commands:
  products [category]   list the catalog, optionally one category
  search <term>         search products
  show <id>             show one product
  add <id> [qty]        add a product to the cart
  remove <id>           remove a product from the cart
  qty <id> <n>          change a cart line's quantity (0 removes)
  cart                  show the cart
  clear                 empty the cart
  login <name>          sign in
  logout                sign out
  whoami                show the signed-in principal
  checkout              place an order from the current cart
  orders                list your orders
  order <id>            show one order
  status                show service availability
  exit                  leave
`)
}

// cmdProducts lists the catalog. When the service is unreachable it falls
// back to the offline cache, clearly labelled: cached stock is a hint of
// a hint.
func (s *Session) cmdProducts(ctx context.Context, args []string) error {
	var (
		products []product.Product
		err      error
	)
	if len(args) > 0 {
		products, err = s.deps.Catalog.ProductsByCategory(ctx, args[0])
	} else {
		products, err = s.deps.Catalog.Products(ctx)
	}
	if err != nil {
		cached, cacheErr := s.deps.Cache.ReadProducts()
		if cacheErr != nil {
			return err
		}
		s.printf("service unavailable, showing cached catalog\n")
		products = cached
		if len(args) > 0 {
			products = filterByCategory(products, args[0])
		}
	}
	s.printProducts(products)
	return nil
}

func filterByCategory(products []product.Product, category string) []product.Product {
	out := make([]product.Product, 0, len(products))
	for _, p := range products {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

func (s *Session) cmdSearch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: search <term>")
	}
	products, err := s.deps.Catalog.Search(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	s.printProducts(products)
	return nil
}

func (s *Session) cmdShow(ctx context.Context, args []string) error {
	id, err := parseID(args, "show <id>")
	if err != nil {
		return err
	}
	p, err := s.deps.Catalog.Product(ctx, id)
	if err != nil {
		return err
	}
	s.printf("#%d %s (%s)\n", p.ID, p.Title, p.SKU)
	if p.Description != "" {
		s.printf("  %s\n", p.Description)
	}
	s.printf("  category: %s  price: %s  stock: %d\n", p.Category, p.Price.Format(), p.Stock)
	return nil
}

func (s *Session) cmdAdd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: add <id> [qty]")
	}
	id, err := parseID(args[:1], "add <id> [qty]")
	if err != nil {
		return err
	}
	qty := int64(1)
	if len(args) > 1 {
		qty, err = strconv.ParseInt(args[1], 10, 64)
		if err != nil || qty < 1 {
			return errors.New("quantity must be a positive number")
		}
	}

	p, err := s.deps.Catalog.Product(ctx, id)
	if err != nil {
		return err
	}

	// Stock guard using the last-known value. The cart itself never
	// clamps; the service has the final word at order time.
	if clamped := clampToStock(qty, p.Stock); clamped != qty {
		if clamped == 0 {
			s.printf("%s is out of stock\n", p.Title)
			return nil
		}
		s.printf("only %d in stock, adding %d\n", p.Stock, clamped)
		qty = clamped
	}

	s.deps.Carts.Add(*p, qty)
	s.printf("added %d × %s — cart: %d items, %s\n",
		qty, p.Title, s.deps.Carts.ItemCount(), s.deps.Carts.Subtotal().Format())
	return nil
}

// clampToStock limits a requested quantity to the last-known stock level.
func clampToStock(qty, stock int64) int64 {
	if stock <= 0 {
		return 0
	}
	if qty > stock {
		return stock
	}
	return qty
}

func (s *Session) cmdRemove(args []string) error {
	id, err := parseID(args, "remove <id>")
	if err != nil {
		return err
	}
	s.deps.Carts.Remove(id)
	s.printf("removed — cart: %d items\n", s.deps.Carts.ItemCount())
	return nil
}

func (s *Session) cmdQty(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: qty <id> <n>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return errors.New("usage: qty <id> <n>")
	}
	qty, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return errors.New("usage: qty <id> <n>")
	}
	s.deps.Carts.SetQuantity(id, qty)
	s.printf("cart: %d items, %s\n", s.deps.Carts.ItemCount(), s.deps.Carts.Subtotal().Format())
	return nil
}

func (s *Session) printCart() {
	snap := s.deps.Carts.Snapshot()
	if snap.IsEmpty() {
		s.printf("cart is empty\n")
		return
	}
	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	for _, item := range snap.Items {
		line := item.Product.Price.MulQty(item.Quantity)
		fmt.Fprintf(w, "#%d\t%s\t× %d\t%s\n",
			item.Product.ID, item.Product.Title, item.Quantity, line.Format())
	}
	_ = w.Flush()
	s.printf("total: %s\n", s.deps.Carts.Subtotal().Format())
}

func (s *Session) printProducts(products []product.Product) {
	if len(products) == 0 {
		s.printf("no products\n")
		return
	}
	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	for _, p := range products {
		fmt.Fprintf(w, "#%d\t%s\t%s\t%s\tstock %d\n",
			p.ID, p.Title, p.Category, p.Price.Format(), p.Stock)
	}
	_ = w.Flush()
}

func (s *Session) cmdLogin(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: login <name>")
	}
	if err := s.deps.Identity.Login(args[0]); err != nil {
		return errors.Wrap(err, "login")
	}
	s.printf("signed in as %s\n", args[0])
	return nil
}

func (s *Session) cmdLogout() error {
	if err := s.deps.Identity.Logout(); err != nil {
		return errors.Wrap(err, "logout")
	}
	s.printf("signed out\n")
	return nil
}

func (s *Session) cmdWhoami() {
	if p, ok := s.deps.Identity.Current(); ok {
		s.printf("%s\n", p.Name)
		return
	}
	s.printf("not signed in\n")
}

// cmdCheckout collects the shipping address interactively and submits the
// order. The checkout service enforces every precondition again; the
// sign-in check here just saves the user typing an address for nothing.
func (s *Session) cmdCheckout(ctx context.Context) error {
	if _, ok := s.deps.Identity.Current(); !ok {
		return errors.New("please sign in to place an order")
	}
	if s.deps.Carts.Snapshot().IsEmpty() {
		return errors.New("cart is empty, add some products first")
	}

	addr := order.Address{
		Name:         s.prompt("full name"),
		AddressLine1: s.prompt("address line 1"),
		AddressLine2: s.prompt("address line 2 (optional)"),
		City:         s.prompt("city"),
		Zipcode:      s.prompt("postal code"),
		Country:      s.prompt("country"),
		Phone:        s.prompt("phone (optional)"),
	}
	email := s.prompt("email (optional)")

	orderID, err := s.deps.Checkout.Checkout(ctx, addr, email)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrNotAuthenticated):
			return errors.New("please sign in to place an order")
		case errors.Is(err, checkout.ErrEmptyCart):
			return errors.New("cart is empty")
		default:
			return errors.Wrap(err, "checkout failed, your cart is unchanged")
		}
	}
	s.printf("order #%d placed\n", orderID)
	return nil
}

func (s *Session) prompt(label string) string {
	s.printf("%s: ", label)
	if !s.in.Scan() {
		return ""
	}
	return strings.TrimSpace(s.in.Text())
}

func (s *Session) cmdOrders(ctx context.Context) error {
	orders, err := s.deps.Catalog.MyOrders(ctx)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		s.printf("no orders yet\n")
		return nil
	}
	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	for _, o := range orders {
		fmt.Fprintf(w, "#%d\t%s\t%s\t%s\n",
			o.ID, o.Timestamp.Format("2006-01-02 15:04"), o.Total.Format(), paidLabel(o.Paid))
	}
	_ = w.Flush()
	return nil
}

func (s *Session) cmdOrder(ctx context.Context, args []string) error {
	id, err := parseID(args, "order <id>")
	if err != nil {
		return err
	}
	o, err := s.deps.Catalog.Order(ctx, id)
	if err != nil {
		return err
	}
	s.printf("order #%d — %s, %s\n", o.ID, o.Total.Format(), paidLabel(o.Paid))
	for _, item := range o.Items {
		s.printf("  %s × %d\n", item.Product.Title, item.Quantity)
	}
	s.printf("  ship to: %s, %s, %s %s, %s\n",
		o.Address.Name, o.Address.AddressLine1, o.Address.City, o.Address.Zipcode, o.Address.Country)
	return nil
}

func paidLabel(paid bool) string {
	if paid {
		return "paid"
	}
	return "unpaid"
}

func (s *Session) cmdStatus() {
	for name, st := range s.deps.Monitor.Snapshot() {
		if st.Healthy {
			s.printf("%s: ok\n", name)
		} else {
			s.printf("%s: unavailable (%v)\n", name, st.Err)
		}
	}
}

func parseID(args []string, usage string) (int64, error) {
	if len(args) < 1 {
		return 0, errors.Errorf("usage: %s", usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, errors.Errorf("usage: %s", usage)
	}
	return id, nil
}
