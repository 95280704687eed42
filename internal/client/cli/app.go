package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/biscotto/internal/client/api"
	"github.com/dmitrijs2005/biscotto/internal/client/cart"
	"github.com/dmitrijs2005/biscotto/internal/client/catalog"
	"github.com/dmitrijs2005/biscotto/internal/client/config"
	"github.com/dmitrijs2005/biscotto/internal/client/session"
	"github.com/dmitrijs2005/biscotto/internal/client/storage"
	"github.com/dmitrijs2005/biscotto/internal/filex"
	"github.com/dmitrijs2005/biscotto/internal/logging"
)

type App struct {
	session *session.Manager
	catalog *catalog.Store
	cart    *cart.Cart
	storage *storage.Storage
	logger  logging.Logger
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp opens the local state database and wires the API client, session,
// catalog and cart.
func NewApp(ctx context.Context, c *config.Config, l logging.Logger) (*App, error) {
	if err := filex.EnsureParentDir(c.StateDBPath); err != nil {
		return nil, err
	}

	st, err := storage.Open(ctx, c.StateDBPath)
	if err != nil {
		l.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	var sess *session.Manager
	client := api.New(c.ServerURL, c.RequestTimeout, api.TokenFunc(func() string { return sess.Token() }))
	sess = session.NewManager(client, session.NewMetadataTokenStore(st.Metadata), l)

	a := newApp(sess, catalog.NewStore(client, l), cart.New(), l, os.Stdin, os.Stdout)
	a.storage = st
	return a, nil
}

func newApp(s *session.Manager, c *catalog.Store, ct *cart.Cart, l logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		session: s,
		catalog: c,
		cart:    ct,
		logger:  l,
		reader:  bufio.NewReader(in),
		out:     out,
	}
}

// Run restores the previous session and serves the REPL until the user
// exits or ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	if err := a.session.Init(ctx); err != nil {
		return err
	}
	if u := a.session.User(); u != nil {
		printlnFn(fmt.Sprintf("Welcome back, %s!", displayName(u.Name, u.Email)))
	}
	printlnFn("Type 'help' for the list of commands.")

	runREPL(ctx, a, a.status, a.reader)
	return nil
}

func (a *App) close() {
	_ = a.session.Close()
	if a.storage != nil {
		if err := a.storage.Close(); err != nil {
			a.logger.Error(context.Background(), "error closing database", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.State() == session.Authenticated
}

func (a *App) isAdmin() bool {
	return a.session.User().IsAdmin()
}

func (a *App) status() string {
	var who string
	switch a.session.State() {
	case session.Authenticated:
		u := a.session.User()
		who = u.Email
		if u.IsAdmin() {
			who += " (admin)"
		}
	case session.AwaitingVerification:
		who = "verifying " + a.session.PendingEmail()
	case session.AwaitingPasswordReset:
		who = "resetting " + a.session.PendingEmail()
	default:
		who = "guest"
	}
	if n := a.cart.Totals().Items; n > 0 {
		return fmt.Sprintf("[%s | cart: %d]", who, n)
	}
	return fmt.Sprintf("[%s]", who)
}

// arg returns args[0] or asks for the value.
func (a *App) arg(args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return GetSimpleText(a.reader, prompt, a.out)
}

func displayName(name, email string) string {
	if name != "" {
		return name
	}
	return email
}
