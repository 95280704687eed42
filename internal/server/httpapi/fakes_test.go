package httpapi

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dmitrijs2005/biscotto/internal/common"
	"github.com/dmitrijs2005/biscotto/internal/server/auth"
	"github.com/dmitrijs2005/biscotto/internal/server/models"
	"github.com/dmitrijs2005/biscotto/internal/server/services"
)

var errBoom = errors.New("boom")

const (
	adminToken    = "admin-token"
	customerToken = "customer-token"
	expiredToken  = "expired-token"
)

type fakeUsers struct {
	signupErr error
	loginErr  error
	resetErr  error
	profile   models.ProfileUpdate
}

func (f *fakeUsers) Signup(ctx context.Context, email, name, password string) (*services.SignupResult, error) {
	if f.signupErr != nil {
		return nil, f.signupErr
	}
	return &services.SignupResult{UserID: "u-1", VerificationCode: "123456"}, nil
}

func (f *fakeUsers) VerifyEmail(ctx context.Context, userID, code string) (*services.AuthResult, error) {
	if code != "123456" {
		return nil, common.ErrorInvalidCode
	}
	return &services.AuthResult{Token: customerToken, User: &models.User{ID: userID, Role: common.RoleCustomer, IsVerified: true}}, nil
}

func (f *fakeUsers) Login(ctx context.Context, email, password string) (*services.AuthResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &services.AuthResult{Token: customerToken, User: &models.User{ID: "u-1", Email: email, Role: common.RoleCustomer}}, nil
}

func (f *fakeUsers) RequestPasswordReset(ctx context.Context, email string) (*services.ResetRequest, error) {
	if strings.HasPrefix(email, "known") {
		return &services.ResetRequest{UserID: "u-1", ResetCode: "654321"}, nil
	}
	return &services.ResetRequest{UserID: "decoy"}, nil
}

func (f *fakeUsers) ResetPassword(ctx context.Context, userID, code, newPassword string) error {
	return f.resetErr
}

func (f *fakeUsers) Authenticate(token string) (*auth.Claims, error) {
	switch token {
	case adminToken:
		return &auth.Claims{UserID: "admin-1", Role: common.RoleAdmin}, nil
	case customerToken:
		return &auth.Claims{UserID: "u-1", Role: common.RoleCustomer}, nil
	case expiredToken:
		return nil, errors.Join(common.ErrorUnauthorized, common.ErrTokenExpired)
	}
	return nil, common.ErrorUnauthorized
}

func (f *fakeUsers) GetCurrentUser(ctx context.Context, token string) (*models.User, error) {
	claims, err := f.Authenticate(token)
	if err != nil {
		return nil, err
	}
	return &models.User{ID: claims.UserID, Email: "a@x.com", Name: "A", Role: claims.Role}, nil
}

func (f *fakeUsers) UpdateProfile(ctx context.Context, token string, upd models.ProfileUpdate) (*models.User, error) {
	f.profile = upd
	if upd.Email != nil && *upd.Email == "taken@x.com" {
		return nil, common.ErrorDuplicateEmail
	}
	u := &models.User{ID: "u-1", Name: "A", Email: "a@x.com"}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	return u, nil
}

type fakeProducts struct {
	mu       sync.Mutex
	items    map[string]*models.Product
	seq      int
	lastImg  *services.ImageUpload
	category string
	listErr  error
	panics   bool
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{items: map[string]*models.Product{}}
}

func (f *fakeProducts) List(ctx context.Context) ([]models.Product, error) {
	if f.panics {
		panic("kaboom")
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Product, 0, len(f.items))
	for _, p := range f.items {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProducts) ListByCategory(ctx context.Context, pattern string) ([]models.Product, error) {
	f.category = pattern
	return []models.Product{}, nil
}

func (f *fakeProducts) Get(ctx context.Context, id string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) Create(ctx context.Context, p *models.Product, img *services.ImageUpload) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	p.ID = "p-" + string(rune('0'+f.seq))
	f.lastImg = img
	if img != nil {
		p.Image = "https://cdn.test/new.png"
	}
	cp := *p
	f.items[p.ID] = &cp
	return p, nil
}

func (f *fakeProducts) Update(ctx context.Context, id string, patch models.ProductPatch, img *services.ImageUpload) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	f.lastImg = img
	patch.Apply(p)
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeSettings struct {
	home  models.HomeSettings
	about models.AboutSettings
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{home: models.DefaultHomeSettings(), about: models.DefaultAboutSettings()}
}

func (f *fakeSettings) GetHome(ctx context.Context) (*models.HomeSettings, error) {
	h := f.home
	return &h, nil
}

func (f *fakeSettings) GetAbout(ctx context.Context) (*models.AboutSettings, error) {
	a := f.about
	return &a, nil
}

func (f *fakeSettings) UpdateHome(ctx context.Context, patch models.HomeSettingsPatch) (*models.HomeSettings, error) {
	patch.Apply(&f.home)
	return f.GetHome(ctx)
}

func (f *fakeSettings) UpdateAbout(ctx context.Context, patch models.AboutSettingsPatch) (*models.AboutSettings, error) {
	patch.Apply(&f.about)
	return f.GetAbout(ctx)
}
