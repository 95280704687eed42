package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App implements
// it; tests use a stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool

	Signup(ctx context.Context, args []string) error
	Verify(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	Forgot(ctx context.Context, args []string) error
	Reset(ctx context.Context, args []string) error
	Me(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error

	Products(ctx context.Context, args []string) error
	Category(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Home(ctx context.Context, args []string) error
	About(ctx context.Context, args []string) error

	Add(ctx context.Context, args []string) error
	Qty(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	Cart(ctx context.Context, args []string) error
	Checkout(ctx context.Context, args []string) error

	NewProduct(ctx context.Context, args []string) error
	EditProduct(ctx context.Context, args []string) error
	DelProduct(ctx context.Context, args []string) error
	SetHome(ctx context.Context, args []string) error
	SetAbout(ctx context.Context, args []string) error
}

const (
	helpGuest  = "Available commands: signup, verify, login, forgot, reset, products, category, show, home, about, add, qty, remove, cart, checkout, exit"
	helpMember = "Available commands: me, profile, logout, products, category, show, home, about, add, qty, remove, cart, checkout, exit"
	helpAdmin  = "Admin commands: newproduct, editproduct, delproduct, sethome, setabout"
)

// runREPL reads commands from reader until EOF, "exit" or "quit". Errors
// returned by handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("biscotto %s > ", statusFn()))
		line, readErr := reader.ReadString('\n')
		if readErr != nil && (!errors.Is(readErr, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			if readErr != nil {
				return
			}
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		var handler func(context.Context, []string) error
		switch cmd {
		case "help", "?":
			if a.isLoggedIn() {
				printlnFn(helpMember)
			} else {
				printlnFn(helpGuest)
			}
			if a.isAdmin() {
				printlnFn(helpAdmin)
			}
			continue

		case "signup", "register":
			handler = a.Signup
		case "verify":
			handler = a.Verify
		case "login":
			handler = a.Login
		case "logout":
			handler = a.Logout
		case "forgot":
			handler = a.Forgot
		case "reset":
			handler = a.Reset
		case "me":
			handler = a.Me
		case "profile":
			handler = a.Profile

		case "products", "l", "list":
			handler = a.Products
		case "category":
			handler = a.Category
		case "show":
			handler = a.Show
		case "home":
			handler = a.Home
		case "about":
			handler = a.About

		case "add":
			handler = a.Add
		case "qty":
			handler = a.Qty
		case "remove", "rm":
			handler = a.Remove
		case "cart":
			handler = a.Cart
		case "checkout":
			handler = a.Checkout

		case "newproduct":
			handler = a.NewProduct
		case "editproduct":
			handler = a.EditProduct
		case "delproduct":
			handler = a.DelProduct
		case "sethome":
			handler = a.SetHome
		case "setabout":
			handler = a.SetAbout

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
			continue
		}

		if err := handler(ctx, args); err != nil {
			printlnFn("Error:", err)
		}

		if readErr != nil {
			return
		}
	}
}
