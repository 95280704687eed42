package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/dmitrijs2005/biscotto/internal/client/api"
	"github.com/dmitrijs2005/biscotto/internal/client/cart"
	"github.com/dmitrijs2005/biscotto/internal/client/catalog"
	"github.com/dmitrijs2005/biscotto/internal/client/models"
	"github.com/dmitrijs2005/biscotto/internal/client/session"
	"github.com/dmitrijs2005/biscotto/internal/logging"
)

// fakeBackend serves both the session and the catalog.
type fakeBackend struct {
	tokens   api.TokenSource
	users    map[string]models.User // by token
	products []models.Product
	home     models.HomeSettings
	about    models.AboutSettings

	created    *models.ProductInput
	createdImg *models.ImageFile
	updated    *models.ProductInput
	deleted    []string
	homeIn     *models.HomeSettingsInput
	aboutIn    *models.AboutSettingsInput
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		users: map[string]models.User{},
		products: []models.Product{
			{ID: "p1", Name: "Sourdough", Price: 5, Category: "Bread", Stock: 3},
			{ID: "p2", Name: "Cookie", Price: 3.5, Category: "Sweets", Stock: 10},
		},
		home:  models.HomeSettings{HeroTitle: "Simple, Yet Delectable", CollageImages: []string{"a", "b"}},
		about: models.AboutSettings{FounderQuote: "Bake with love"},
	}
}

func unauthorized() error {
	return &api.Error{Status: http.StatusUnauthorized, Message: "Invalid token"}
}

func (f *fakeBackend) Signup(_ context.Context, email, name, password string) (*models.SignupResult, error) {
	if len(password) < 6 {
		return nil, &api.Error{Status: http.StatusBadRequest, Message: "Validation failed", Fields: map[string]string{"password": "must be at least 6 characters"}}
	}
	return &models.SignupResult{Message: "User created successfully. Please verify your email.", UserID: "u-new", VerificationCode: "123456"}, nil
}

func (f *fakeBackend) VerifyEmail(_ context.Context, userID, code string) (*models.AuthResult, error) {
	if code != "123456" {
		return nil, &api.Error{Status: http.StatusBadRequest, Message: "Invalid verification code"}
	}
	u := models.User{ID: userID, Email: "new@x.com", Name: "New", Role: "customer", IsVerified: true}
	f.users["tok-new"] = u
	return &models.AuthResult{Token: "tok-new", User: u}, nil
}

func (f *fakeBackend) Login(_ context.Context, email, password string) (*models.AuthResult, error) {
	if password != "secret1" {
		return nil, &api.Error{Status: http.StatusUnauthorized, Message: "Invalid email or password"}
	}
	role := "customer"
	if strings.HasPrefix(email, "admin") {
		role = "admin"
	}
	u := models.User{ID: "u-" + role, Email: email, Name: "Ann", Role: role, IsVerified: true}
	tok := "tok-" + role
	f.users[tok] = u
	return &models.AuthResult{Token: tok, User: u}, nil
}

func (f *fakeBackend) ForgotPassword(context.Context, string) (*models.ResetRequest, error) {
	return &models.ResetRequest{Message: "If the email exists, a reset code has been sent.", UserID: "u-1", ResetCode: "654321"}, nil
}

func (f *fakeBackend) ResetPassword(_ context.Context, _, code, _ string) (string, error) {
	if code != "654321" {
		return "", &api.Error{Status: http.StatusBadRequest, Message: "Invalid reset code"}
	}
	return "Password reset successfully", nil
}

func (f *fakeBackend) Me(context.Context) (*models.User, error) {
	u, ok := f.users[f.tokens.Token()]
	if !ok {
		return nil, unauthorized()
	}
	return &u, nil
}

func (f *fakeBackend) UpdateProfile(_ context.Context, name, email *string) (*models.User, error) {
	tok := f.tokens.Token()
	u, ok := f.users[tok]
	if !ok {
		return nil, unauthorized()
	}
	if name != nil {
		u.Name = *name
	}
	if email != nil {
		u.Email = *email
	}
	f.users[tok] = u
	return &u, nil
}

func (f *fakeBackend) ListProducts(context.Context) ([]models.Product, error) {
	return append([]models.Product(nil), f.products...), nil
}

func (f *fakeBackend) ListByCategory(_ context.Context, category string) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if strings.Contains(strings.ToLower(p.Category), strings.ToLower(category)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeBackend) GetProduct(_ context.Context, id string) (*models.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, &api.Error{Status: http.StatusNotFound, Message: "Product not found"}
}

func (f *fakeBackend) CreateProduct(_ context.Context, in models.ProductInput, img *models.ImageFile) (*models.Product, error) {
	f.created, f.createdImg = &in, img
	p := models.Product{ID: "p-new", Name: *in.Name, Price: *in.Price}
	f.products = append([]models.Product{p}, f.products...)
	return &p, nil
}

func (f *fakeBackend) UpdateProduct(_ context.Context, id string, in models.ProductInput, _ *models.ImageFile) (*models.Product, error) {
	f.updated = &in
	p, err := f.GetProduct(context.Background(), id)
	if err != nil {
		return nil, err
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	return p, nil
}

func (f *fakeBackend) DeleteProduct(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBackend) GetHome(context.Context) (*models.HomeSettings, error) {
	h := f.home
	return &h, nil
}

func (f *fakeBackend) GetAbout(context.Context) (*models.AboutSettings, error) {
	a := f.about
	return &a, nil
}

func (f *fakeBackend) UpdateHome(_ context.Context, in models.HomeSettingsInput) (*models.HomeSettings, error) {
	f.homeIn = &in
	h := f.home
	return &h, nil
}

func (f *fakeBackend) UpdateAbout(_ context.Context, in models.AboutSettingsInput) (*models.AboutSettings, error) {
	f.aboutIn = &in
	a := f.about
	return &a, nil
}

type memTokens struct{ token string }

func (m *memTokens) Load(context.Context) (string, error)       { return m.token, nil }
func (m *memTokens) Save(_ context.Context, token string) error { m.token = token; return nil }
func (m *memTokens) Clear(context.Context) error                { m.token = ""; return nil }

type testEnv struct {
	app     *App
	backend *fakeBackend
	tokens  *memTokens
	out     *[]string
}

// newTestApp builds an App reading input and answering passwords from
// the given list in order.
func newTestApp(t *testing.T, input string, passwords ...string) *testEnv {
	t.Helper()

	b := newFakeBackend()
	tokens := &memTokens{}
	sess := session.NewManager(b, tokens, logging.Nop())
	b.tokens = sess

	origPw := getPassword
	queue := passwords
	getPassword = func(io.Writer, string) ([]byte, error) {
		if len(queue) == 0 {
			return nil, io.EOF
		}
		pw := []byte(queue[0])
		queue = queue[1:]
		return pw, nil
	}
	t.Cleanup(func() { getPassword = origPw })

	return &testEnv{
		app:     newApp(sess, catalog.NewStore(b, logging.Nop()), cart.New(), logging.Nop(), strings.NewReader(input), &bytes.Buffer{}),
		backend: b,
		tokens:  tokens,
		out:     captureOutput(t),
	}
}
