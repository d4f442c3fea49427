// Package cli implements the shopctl commands on top of the session store,
// the authorization gate and the cart reconciliation model.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"storefront/internal/domain"
	"storefront/internal/remote"
	cartsvc "storefront/internal/service/cart"
	"storefront/internal/service/gate"
	ordersvc "storefront/internal/service/order"
	"storefront/internal/service/session"
)

// ErrUsage reports a malformed command line.
var ErrUsage = errors.New("usage")

// Products resolves product ids to catalog entries.
type Products interface {
	Get(ctx context.Context, id string) (*domain.Product, error)
}

// Carts reconciles the local cart model with the remote cart.
type Carts interface {
	Fetch(ctx context.Context, credential string, m *cartsvc.Model) error
	Add(ctx context.Context, credential string, m *cartsvc.Model, product domain.ProductSnapshot, quantity int) error
	UpdateQuantity(ctx context.Context, credential string, m *cartsvc.Model, lineID string, quantity int) error
	Remove(ctx context.Context, credential string, m *cartsvc.Model, lineID string) error
}

// Orders places and lists orders.
type Orders interface {
	Checkout(ctx context.Context, credential string, cart ordersvc.Cart, in domain.CheckoutInput) (*domain.Order, error)
	Mine(ctx context.Context, credential string) ([]domain.Order, error)
}

// App holds the dependencies of one shopctl invocation.
type App struct {
	Store    *session.Store
	Gate     *gate.Gate
	Products Products
	Carts    Carts
	Orders   Orders
	Out      io.Writer
	Now      func() time.Time

	cart *cartsvc.Model
}

const usage = `usage: shopctl <command> [flags]

commands:
  login -email E -password P
  register -name N -email E -password P
  logout
  whoami
  status
  cart [list | add PRODUCT_ID [QTY] | update LINE_ID QTY | remove LINE_ID]
  checkout -address A -phone P [-payment METHOD]
  orders`

// Usage returns the command summary.
func Usage() string { return usage }

// Run executes a single command. The persisted session is loaded first so
// every command starts from the state the previous one left behind.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	if a.Now == nil {
		a.Now = time.Now
	}
	if err := a.Store.LoadSession(ctx); err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.login(ctx, rest)
	case "register":
		return a.register(ctx, rest)
	case "logout":
		return a.logout(ctx)
	case "whoami":
		return a.whoami(ctx)
	case "status":
		return a.status()
	case "cart":
		return a.cartCmd(ctx, rest)
	case "checkout":
		return a.checkout(ctx, rest)
	case "orders":
		return a.orders(ctx)
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
}

func (a *App) login(ctx context.Context, args []string) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	identity, err := a.Store.Login(ctx, *email, *password)
	if err != nil {
		return errors.New(remote.Message(err, "Login failed"))
	}
	fmt.Fprintf(a.Out, "Logged in as %s (%s)\n", identity.Name, identity.Role)
	return nil
}

func (a *App) register(ctx context.Context, args []string) error {
	fs := newFlagSet("register")
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	identity, err := a.Store.Register(ctx, *name, *email, *password)
	if err != nil {
		return errors.New(remote.Message(err, "Registration failed"))
	}
	fmt.Fprintf(a.Out, "Registered %s (%s)\n", identity.Email, identity.Role)
	return nil
}

func (a *App) logout(ctx context.Context) error {
	if err := a.Store.Logout(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	fmt.Fprintln(a.Out, "Logged out successfully")
	return nil
}

func (a *App) whoami(ctx context.Context) error {
	identity, err := a.require(ctx, domain.RoleCustomer)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "%s <%s> %s\n", identity.Name, identity.Email, identity.Role)
	return nil
}

// status reports the cached session without contacting the remote API.
func (a *App) status() error {
	snap := a.Store.Snapshot()
	if !snap.Authenticated || snap.Identity == nil {
		fmt.Fprintln(a.Out, "Not logged in")
		return nil
	}
	fmt.Fprintf(a.Out, "Logged in as %s <%s> %s (cached)\n", snap.Identity.Name, snap.Identity.Email, snap.Identity.Role)
	exp, err := CredentialExpiry(snap.Credential)
	switch {
	case err != nil:
		fmt.Fprintln(a.Out, "Credential expiry unknown")
	case exp.Before(a.Now()):
		fmt.Fprintf(a.Out, "Credential expired at %s\n", exp.UTC().Format(time.RFC3339))
	default:
		fmt.Fprintf(a.Out, "Credential expires at %s\n", exp.UTC().Format(time.RFC3339))
	}
	return nil
}

func (a *App) cartCmd(ctx context.Context, args []string) error {
	if _, err := a.require(ctx, domain.RoleCustomer); err != nil {
		return err
	}
	credential, _ := a.Store.Credential()
	m := a.model()
	if err := a.Carts.Fetch(ctx, credential, m); err != nil {
		return errors.New(remote.Message(err, "Failed to fetch cart"))
	}

	var err error
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}
	switch sub {
	case "list":
	case "add":
		if len(args) < 1 {
			return fmt.Errorf("%w: cart add PRODUCT_ID [QTY]", ErrUsage)
		}
		qty := 1
		if len(args) > 1 {
			if qty, err = strconv.Atoi(args[1]); err != nil {
				return fmt.Errorf("%w: quantity must be a number", ErrUsage)
			}
		}
		product, err := a.Products.Get(ctx, args[0])
		if err != nil {
			return errors.New(remote.Message(err, "Product not found"))
		}
		if err := a.Carts.Add(ctx, credential, m, product.Snapshot(), qty); err != nil {
			return errors.New(remote.Message(err, "Failed to add to cart"))
		}
		fmt.Fprintln(a.Out, "Added to cart!")
	case "update":
		if len(args) < 2 {
			return fmt.Errorf("%w: cart update LINE_ID QTY", ErrUsage)
		}
		qty, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%w: quantity must be a number", ErrUsage)
		}
		if err := a.Carts.UpdateQuantity(ctx, credential, m, args[0], qty); err != nil {
			return errors.New(remote.Message(err, "Failed to update cart"))
		}
		fmt.Fprintln(a.Out, "Cart updated")
	case "remove":
		if len(args) < 1 {
			return fmt.Errorf("%w: cart remove LINE_ID", ErrUsage)
		}
		if err := a.Carts.Remove(ctx, credential, m, args[0]); err != nil {
			return errors.New(remote.Message(err, "Failed to remove item"))
		}
		fmt.Fprintln(a.Out, "Item removed")
	default:
		return fmt.Errorf("%w: unknown cart command %q", ErrUsage, sub)
	}
	return a.printCart(m.Snapshot())
}

func (a *App) checkout(ctx context.Context, args []string) error {
	fs := newFlagSet("checkout")
	address := fs.String("address", "", "delivery address")
	phone := fs.String("phone", "", "contact phone")
	payment := fs.String("payment", domain.PaymentCashOnDelivery, "payment method")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if _, err := a.require(ctx, domain.RoleCustomer); err != nil {
		return err
	}
	credential, _ := a.Store.Credential()
	m := a.model()
	if err := a.Carts.Fetch(ctx, credential, m); err != nil {
		return errors.New(remote.Message(err, "Failed to fetch cart"))
	}
	order, err := a.Orders.Checkout(ctx, credential, m, domain.CheckoutInput{
		Address:       *address,
		Phone:         *phone,
		PaymentMethod: *payment,
	})
	if err != nil {
		return errors.New(remote.Message(err, "Failed to place order"))
	}
	fmt.Fprintf(a.Out, "Order placed successfully! #%s total %s\n", order.ID, formatCents(order.TotalCents))
	return nil
}

func (a *App) orders(ctx context.Context) error {
	if _, err := a.require(ctx, domain.RoleCustomer); err != nil {
		return err
	}
	credential, _ := a.Store.Credential()
	orders, err := a.Orders.Mine(ctx, credential)
	if err != nil {
		return errors.New(remote.Message(err, "Failed to fetch orders"))
	}
	if len(orders) == 0 {
		fmt.Fprintln(a.Out, "No orders yet")
		return nil
	}
	tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tSTATUS\tPAYMENT\tTOTAL")
	for _, o := range orders {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", o.ID, o.CreatedAt.Format("2006-01-02"), o.Status, o.PaymentStatus, formatCents(o.TotalCents))
	}
	return tw.Flush()
}

// require runs the authorization gate and turns a denial into an error.
func (a *App) require(ctx context.Context, role domain.Role) (*domain.Identity, error) {
	out := a.Gate.Check(ctx, a.Store, role)
	switch out.Decision {
	case gate.Allowed:
		return out.Identity, nil
	case gate.DeniedUnauthorized:
		return nil, fmt.Errorf("%w: %s role required", domain.ErrUnauthorized, strings.ToLower(string(role)))
	default:
		return nil, fmt.Errorf("%w: please log in", domain.ErrUnauthenticated)
	}
}

// RequireAdmin logs in with email and password and returns the credential
// when the server confirms the ADMIN role.
func RequireAdmin(ctx context.Context, store *session.Store, g *gate.Gate, email, password string) (string, error) {
	if _, err := store.Login(ctx, email, password); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	out := g.Check(ctx, store, domain.RoleAdmin)
	switch out.Decision {
	case gate.Allowed:
		credential, _ := store.Credential()
		return credential, nil
	case gate.DeniedUnauthorized:
		return "", fmt.Errorf("%s: %w", email, domain.ErrUnauthorized)
	default:
		return "", fmt.Errorf("%s: %w", email, domain.ErrUnauthenticated)
	}
}

func (a *App) model() *cartsvc.Model {
	if a.cart == nil {
		a.cart = cartsvc.NewModel()
	}
	return a.cart
}

func (a *App) printCart(cart domain.Cart) error {
	if len(cart.Lines) == 0 {
		fmt.Fprintln(a.Out, "Your cart is empty")
		return nil
	}
	tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE\tPRODUCT\tQTY\tPRICE\tTOTAL")
	for _, l := range cart.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", l.ID, l.Product.Name, l.Quantity, formatCents(l.Product.UnitPriceCents), formatCents(l.TotalCents))
	}
	fmt.Fprintf(tw, "\t\t\tTotal\t%s\n", formatCents(cart.TotalCents))
	return tw.Flush()
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func formatCents(cents int64) string {
	return strconv.FormatFloat(float64(cents)/100, 'f', 2, 64)
}
