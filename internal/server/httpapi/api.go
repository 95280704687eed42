// Package httpapi exposes the storefront REST API over gin.
package httpapi

import (
	"context"

	"github.com/dmitrijs2005/biscotto/internal/logging"
	"github.com/dmitrijs2005/biscotto/internal/server/auth"
	"github.com/dmitrijs2005/biscotto/internal/server/cache"
	"github.com/dmitrijs2005/biscotto/internal/server/models"
	"github.com/dmitrijs2005/biscotto/internal/server/services"
)

// UserService is the identity surface used by the auth handlers.
type UserService interface {
	Signup(ctx context.Context, email, name, password string) (*services.SignupResult, error)
	VerifyEmail(ctx context.Context, userID, code string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	RequestPasswordReset(ctx context.Context, email string) (*services.ResetRequest, error)
	ResetPassword(ctx context.Context, userID, code, newPassword string) error
	Authenticate(token string) (*auth.Claims, error)
	GetCurrentUser(ctx context.Context, token string) (*models.User, error)
	UpdateProfile(ctx context.Context, token string, upd models.ProfileUpdate) (*models.User, error)
}

type ProductService interface {
	List(ctx context.Context) ([]models.Product, error)
	ListByCategory(ctx context.Context, pattern string) ([]models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, p *models.Product, img *services.ImageUpload) (*models.Product, error)
	Update(ctx context.Context, id string, patch models.ProductPatch, img *services.ImageUpload) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}

type SettingsService interface {
	GetHome(ctx context.Context) (*models.HomeSettings, error)
	GetAbout(ctx context.Context) (*models.AboutSettings, error)
	UpdateHome(ctx context.Context, patch models.HomeSettingsPatch) (*models.HomeSettings, error)
	UpdateAbout(ctx context.Context, patch models.AboutSettingsPatch) (*models.AboutSettings, error)
}

// EnvStatus reports which backing services are configured.
type EnvStatus struct {
	S3       bool `json:"s3"`
	Database bool `json:"database"`
	JWT      bool `json:"jwt"`
}

// Options configures the router.
type Options struct {
	Production  bool
	FrontendURL string
	Env         EnvStatus
	// Limiter throttles auth POSTs per client IP; nil disables it.
	Limiter *cache.RateLimiter
}

// API holds the handler dependencies.
type API struct {
	users    UserService
	products ProductService
	settings SettingsService
	opts     Options
	logger   logging.Logger
}

func New(us UserService, ps ProductService, ss SettingsService, opts Options, l logging.Logger) *API {
	return &API{
		users:    us,
		products: ps,
		settings: ss,
		opts:     opts,
		logger:   l.With("module", "http_api"),
	}
}
