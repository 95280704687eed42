package cli

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/biscotto/internal/client/models"
	"github.com/dmitrijs2005/biscotto/internal/filex"
)

// MaxImageSize matches the server's upload limit.
const MaxImageSize = 10 << 20

var errAdminRequired = errors.New("admin access required")

// readFile is a test seam for filex.ReadLimited.
var readFile = filex.ReadLimited

func (a *App) requireAdmin() error {
	if !a.isLoggedIn() {
		return errLoginRequired
	}
	if !a.isAdmin() {
		return errAdminRequired
	}
	return nil
}

// loadImage reads a local image for upload.
func loadImage(path string) (*models.ImageFile, error) {
	data, err := readFile(path, MaxImageSize)
	if err != nil {
		return nil, err
	}

	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	if !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("%s is not an image", filepath.Base(path))
	}

	return &models.ImageFile{Name: filepath.Base(path), ContentType: ct, Data: data}, nil
}

// imageAnswer splits an image answer into a remote URL or a local file.
func imageAnswer(s *string) (*string, *models.ImageFile, error) {
	if s == nil {
		return nil, nil, nil
	}
	if strings.HasPrefix(*s, "http://") || strings.HasPrefix(*s, "https://") {
		return s, nil, nil
	}
	img, err := loadImage(*s)
	return nil, img, err
}

// productForm asks for every product field. With keep set, empty answers
// leave the field unchanged.
func (a *App) productForm(keep bool) (models.ProductInput, *models.ImageFile, error) {
	var in models.ProductInput

	ask := func(prompt string) (*string, error) {
		if keep {
			return GetOptionalText(a.reader, prompt, a.out)
		}
		s, err := GetSimpleText(a.reader, prompt, a.out)
		if err != nil || s == "" {
			return nil, err
		}
		return &s, nil
	}

	var err error
	if in.Name, err = ask("Name"); err != nil {
		return in, nil, err
	}

	price, err := ask("Price")
	if err != nil {
		return in, nil, err
	}
	if price != nil {
		f, err := strconv.ParseFloat(*price, 64)
		if err != nil || f < 0 {
			return in, nil, errors.New("price must be a non-negative number")
		}
		in.Price = &f
	}

	if in.Category, err = ask("Category"); err != nil {
		return in, nil, err
	}

	stock, err := ask("Stock")
	if err != nil {
		return in, nil, err
	}
	if stock != nil {
		n, err := strconv.Atoi(*stock)
		if err != nil || n < 0 {
			return in, nil, errors.New("stock must be a non-negative whole number")
		}
		in.Stock = &n
	}

	if in.Description, err = ask("Description"); err != nil {
		return in, nil, err
	}

	image, err := ask("Image URL or local file path")
	if err != nil {
		return in, nil, err
	}
	var img *models.ImageFile
	if in.Image, img, err = imageAnswer(image); err != nil {
		return in, nil, err
	}

	return in, img, nil
}

func (a *App) NewProduct(ctx context.Context, _ []string) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}

	in, img, err := a.productForm(false)
	if err != nil {
		return err
	}
	if in.Name == nil || in.Price == nil {
		return errors.New("name and price are required")
	}

	p, err := a.catalog.Create(ctx, in, img)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Product created successfully: %s (%s)", p.Name, p.ID))
	return nil
}

func (a *App) EditProduct(ctx context.Context, args []string) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}

	id, err := a.arg(args, "Product ID")
	if err != nil {
		return err
	}

	in, img, err := a.productForm(true)
	if err != nil {
		return err
	}

	p, err := a.catalog.Update(ctx, id, in, img)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Product updated successfully: %s (%s)", p.Name, p.ID))
	return nil
}

func (a *App) DelProduct(ctx context.Context, args []string) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}

	id, err := a.arg(args, "Product ID")
	if err != nil {
		return err
	}

	confirm, err := GetSimpleText(a.reader, fmt.Sprintf("Delete product %s? Type 'yes' to confirm", id), a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(confirm, "yes") {
		printlnFn("Cancelled.")
		return nil
	}

	if err := a.catalog.Delete(ctx, id); err != nil {
		return err
	}
	a.cart.Remove(id)
	printlnFn("Product deleted successfully")
	return nil
}

func (a *App) optionalList(prompt string) (*[]string, error) {
	s, err := GetOptionalText(a.reader, prompt+", comma separated", a.out)
	if err != nil || s == nil {
		return nil, err
	}
	items := splitList(*s)
	return &items, nil
}

func (a *App) SetHome(ctx context.Context, _ []string) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}

	var (
		in  models.HomeSettingsInput
		err error
	)
	if in.HeroTitle, err = GetOptionalText(a.reader, "Hero title", a.out); err != nil {
		return err
	}
	if in.HeroSubtitle, err = GetOptionalText(a.reader, "Hero subtitle", a.out); err != nil {
		return err
	}
	if in.HeroImage, err = GetOptionalText(a.reader, "Hero image URL", a.out); err != nil {
		return err
	}
	if in.FeaturedProductIDs, err = a.optionalList("Featured product IDs"); err != nil {
		return err
	}
	if in.CollageImages, err = a.optionalList("Collage image URLs"); err != nil {
		return err
	}

	if _, err := a.catalog.UpdateHome(ctx, in); err != nil {
		return err
	}
	printlnFn("Home settings updated successfully")
	return nil
}

func (a *App) SetAbout(ctx context.Context, _ []string) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}

	var (
		in  models.AboutSettingsInput
		err error
	)
	if in.FounderQuote, err = GetOptionalText(a.reader, "Founder quote", a.out); err != nil {
		return err
	}
	if in.FounderImage, err = GetOptionalText(a.reader, "Founder image URL", a.out); err != nil {
		return err
	}
	if in.FlagshipImage, err = GetOptionalText(a.reader, "Flagship image URL", a.out); err != nil {
		return err
	}
	if in.CollageImages, err = a.optionalList("Collage image URLs"); err != nil {
		return err
	}

	if _, err := a.catalog.UpdateAbout(ctx, in); err != nil {
		return err
	}
	printlnFn("About settings updated successfully")
	return nil
}
