package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/biscotto/internal/client/cart"
	"github.com/dmitrijs2005/biscotto/internal/client/models"
)

var errLoginRequired = errors.New("please log in first")

func money(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

func printProducts(items []models.Product) {
	if len(items) == 0 {
		printlnFn("No products found.")
		return
	}
	for _, p := range items {
		printlnFn(fmt.Sprintf("%s  %-24s %8s  %-12s stock: %d",
			p.ID, p.Name, money(cart.Cents(p.Price)), p.Category, p.Stock))
	}
}

func (a *App) Products(ctx context.Context, _ []string) error {
	items, err := a.catalog.Refresh(ctx)
	if err != nil {
		return err
	}
	printProducts(items)
	return nil
}

func (a *App) Category(ctx context.Context, args []string) error {
	category := strings.Join(args, " ")
	if category == "" {
		var err error
		if category, err = a.required("Category"); err != nil {
			return err
		}
	}

	items, err := a.catalog.ByCategory(ctx, category)
	if err != nil {
		return err
	}
	printProducts(items)
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := a.arg(args, "Product ID")
	if err != nil {
		return err
	}

	p, err := a.catalog.Find(ctx, id)
	if err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("%s (%s)", p.Name, p.ID))
	printlnFn("Price:   ", money(cart.Cents(p.Price)))
	printlnFn("Category:", p.Category)
	printlnFn("Stock:   ", p.Stock)
	if p.Image != "" {
		printlnFn("Image:   ", p.Image)
	}
	if p.Description != "" {
		printlnFn(p.Description)
	}
	return nil
}

func (a *App) Home(ctx context.Context, _ []string) error {
	h, err := a.catalog.Home(ctx)
	if err != nil {
		return err
	}
	printlnFn(h.HeroTitle)
	printlnFn(h.HeroSubtitle)
	printlnFn("Hero image:", h.HeroImage)
	if len(h.FeaturedProductIDs) > 0 {
		printlnFn("Featured:", strings.Join(h.FeaturedProductIDs, ", "))
	}
	printlnFn(fmt.Sprintf("Collage: %d images", len(h.CollageImages)))
	return nil
}

func (a *App) About(ctx context.Context, _ []string) error {
	s, err := a.catalog.About(ctx)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("%q", s.FounderQuote))
	printlnFn("Founder image:", s.FounderImage)
	printlnFn("Flagship image:", s.FlagshipImage)
	printlnFn(fmt.Sprintf("Collage: %d images", len(s.CollageImages)))
	return nil
}

func (a *App) Add(ctx context.Context, args []string) error {
	id, err := a.arg(args, "Product ID")
	if err != nil {
		return err
	}

	p, err := a.catalog.Find(ctx, id)
	if err != nil {
		return err
	}

	a.cart.Add(*p)
	printlnFn(fmt.Sprintf("Added %s to cart.", p.Name))
	return nil
}

func (a *App) Qty(_ context.Context, args []string) error {
	id, err := a.arg(args, "Product ID")
	if err != nil {
		return err
	}

	var raw string
	if len(args) > 1 {
		raw = args[1]
	} else if raw, err = a.required("Quantity"); err != nil {
		return err
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return errors.New("quantity must be a whole number")
	}

	if !a.cart.UpdateQuantity(id, n) {
		return fmt.Errorf("product %s is not in the cart", id)
	}
	if n <= 0 {
		printlnFn("Removed from cart.")
	} else {
		printlnFn("Quantity updated.")
	}
	return nil
}

func (a *App) Remove(_ context.Context, args []string) error {
	id, err := a.arg(args, "Product ID")
	if err != nil {
		return err
	}
	a.cart.Remove(id)
	printlnFn("Removed from cart.")
	return nil
}

func printTotals(t cart.Totals) {
	printlnFn("Subtotal:", money(t.Subtotal))
	printlnFn(fmt.Sprintf("Tax (%d%%): %s", cart.TaxPercent, money(t.Tax)))
	printlnFn("Total:   ", money(t.Total))
}

func (a *App) Cart(_ context.Context, _ []string) error {
	lines := a.cart.Lines()
	if len(lines) == 0 {
		printlnFn("Your cart is empty.")
		return nil
	}
	for _, l := range lines {
		printlnFn(fmt.Sprintf("%s  %-24s %3d x %8s = %s", l.Product.ID, l.Product.Name, l.Quantity,
			money(cart.Cents(l.Product.Price)), money(cart.Cents(l.Product.Price)*int64(l.Quantity))))
	}
	printTotals(a.cart.Totals())
	return nil
}

// Checkout confirms the order locally and empties the cart. Nothing is sent
// to the server.
func (a *App) Checkout(_ context.Context, _ []string) error {
	r, ok := a.cart.Checkout()
	if !ok {
		printlnFn("Your cart is empty.")
		return nil
	}
	printlnFn(fmt.Sprintf("Order confirmed: %d items.", r.Totals.Items))
	printTotals(r.Totals)
	printlnFn("Thank you for shopping at Biscotto Bakeria!")
	return nil
}
