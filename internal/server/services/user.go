// Package services contains server-side business logic. This file implements
// UserService, which handles signup with email verification, login, password
// reset and profile management, and issues stateless JWT session tokens.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/biscotto/internal/common"
	"github.com/dmitrijs2005/biscotto/internal/dbx"
	"github.com/dmitrijs2005/biscotto/internal/logging"
	"github.com/dmitrijs2005/biscotto/internal/server/auth"
	"github.com/dmitrijs2005/biscotto/internal/server/config"
	"github.com/dmitrijs2005/biscotto/internal/server/models"
	"github.com/dmitrijs2005/biscotto/internal/server/notify"
	"github.com/dmitrijs2005/biscotto/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ResetCodeValidity is how long a password reset code stays usable.
const ResetCodeValidity = time.Hour

// SignupResult is returned by Signup. VerificationCode is empty unless the
// notifier echoes codes.
type SignupResult struct {
	UserID           string
	VerificationCode string
}

// AuthResult carries a session token and the authenticated user.
type AuthResult struct {
	Token string
	User  *models.User
}

// ResetRequest is returned by RequestPasswordReset. For unknown emails UserID
// is a random id that matches no account.
type ResetRequest struct {
	UserID    string
	ResetCode string
}

// UserService provides authentication-related operations.
type UserService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	notifier      notify.Notifier
	logger        logging.Logger
	jwtSecret     []byte
	tokenValidity time.Duration
	now           func() time.Time
	inTx          dbx.TxRunner

	dummyOnce sync.Once
	dummyHash string
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, n notify.Notifier, l logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		db:            db,
		repomanager:   m,
		notifier:      n,
		logger:        l.With("module", "user_service"),
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		now:           time.Now,
		inTx:          dbx.Runner(db),
	}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validatePassword(password string) error {
	if len(password) < auth.MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, auth.MinPasswordLength)
	}
	if len(password) > auth.MaxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", common.ErrorValidation, auth.MaxPasswordBytes)
	}
	return nil
}

// Signup creates an unverified customer and issues a verification code.
// An already registered email yields common.ErrorDuplicateEmail.
func (s *UserService) Signup(ctx context.Context, email, name, password string) (*SignupResult, error) {
	email = NormalizeEmail(email)
	name = strings.TrimSpace(name)
	if email == "" || name == "" {
		return nil, fmt.Errorf("%w: email and name are required", common.ErrorValidation)
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	// the unique index still guards concurrent signups
	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrorDuplicateEmail
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}
	code, err := common.GenerateNumericCode()
	if err != nil {
		return nil, common.ErrorInternal
	}

	// an undeliverable code rolls the account back so the email can sign up again
	var user *models.User
	err = s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		user, err = s.repomanager.Users(tx).Create(ctx, &models.User{
			Email:            email,
			Name:             name,
			PasswordHash:     hash,
			Role:             common.RoleCustomer,
			VerificationCode: &code,
		})
		if err != nil {
			return err
		}
		if err := s.notifier.SendCode(ctx, email, notify.PurposeVerifyEmail, code); err != nil {
			return fmt.Errorf("%w: sending verification code: %v", common.ErrorUpstream, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorDuplicateEmail) || errors.Is(err, common.ErrorUpstream) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user created", "user_id", user.ID)

	res := &SignupResult{UserID: user.ID}
	if s.notifier.EchoCodes() {
		res.VerificationCode = code
	}
	return res, nil
}

// VerifyEmail checks code against the stored verification code, marks the
// user verified and signs them in.
func (s *UserService) VerifyEmail(ctx context.Context, userID, code string) (*AuthResult, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	if user.VerificationCode == nil || !codesEqual(*user.VerificationCode, code) {
		return nil, common.ErrorInvalidCode
	}

	if err := repo.MarkVerified(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("error verifying user: %w", err)
	}
	user.IsVerified = true
	user.VerificationCode = nil

	s.logger.Info(ctx, "email verified", "user_id", user.ID)

	return s.signIn(user)
}

// Login checks credentials. Unknown email and wrong password produce the same
// common.ErrorInvalidCredentials and take comparable time.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			auth.CheckPassword(s.getDummyHash(), password)
			return nil, common.ErrorInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, common.ErrorInvalidCredentials
	}

	return s.signIn(user)
}

// RequestPasswordReset issues a reset code valid for ResetCodeValidity. The
// outcome looks the same whether or not the email is registered.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) (*ResetRequest, error) {
	email = NormalizeEmail(email)
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Debug(ctx, "password reset for unknown email")
			return &ResetRequest{UserID: uuid.NewString()}, nil
		}
		return nil, common.ErrorInternal
	}

	code, err := common.GenerateNumericCode()
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := repo.SetResetCode(ctx, user.ID, code, s.now().Add(ResetCodeValidity)); err != nil {
		return nil, fmt.Errorf("error storing reset code: %w", err)
	}

	if err := s.notifier.SendCode(ctx, email, notify.PurposePasswordReset, code); err != nil {
		return nil, fmt.Errorf("%w: sending reset code: %v", common.ErrorUpstream, err)
	}

	res := &ResetRequest{UserID: user.ID}
	if s.notifier.EchoCodes() {
		res.ResetCode = code
	}
	return res, nil
}

// ResetPassword replaces the password when code matches and has not expired.
func (s *UserService) ResetPassword(ctx context.Context, userID, code, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	if user.ResetCode == nil || !codesEqual(*user.ResetCode, code) {
		return common.ErrorInvalidCode
	}
	if user.ResetCodeExpiry == nil || s.now().After(*user.ResetCodeExpiry) {
		return common.ErrorCodeExpired
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	if err := repo.ResetPassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("error resetting password: %w", err)
	}

	s.logger.Info(ctx, "password reset", "user_id", user.ID)
	return nil
}

// Authenticate validates a session token and returns its claims.
func (s *UserService) Authenticate(token string) (*auth.Claims, error) {
	if token == "" {
		return nil, common.ErrorUnauthorized
	}
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}
	return claims, nil
}

// GetCurrentUser resolves the token owner.
func (s *UserService) GetCurrentUser(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.Authenticate(token)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// UpdateProfile changes the token owner's name and/or email. Empty values
// are ignored. Taking an email that belongs to someone else yields
// common.ErrorDuplicateEmail.
func (s *UserService) UpdateProfile(ctx context.Context, token string, upd models.ProfileUpdate) (*models.User, error) {
	user, err := s.GetCurrentUser(ctx, token)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	name := user.Name
	if upd.Name != nil && strings.TrimSpace(*upd.Name) != "" {
		name = strings.TrimSpace(*upd.Name)
	}

	email := user.Email
	if upd.Email != nil {
		if e := NormalizeEmail(*upd.Email); e != "" && e != user.Email {
			other, err := repo.GetByEmail(ctx, e)
			switch {
			case err == nil && other.ID != user.ID:
				return nil, common.ErrorDuplicateEmail
			case err != nil && !errors.Is(err, common.ErrorNotFound):
				return nil, common.ErrorInternal
			}
			email = e
		}
	}

	updated, err := repo.UpdateProfile(ctx, user.ID, name, email)
	if err != nil {
		if errors.Is(err, common.ErrorDuplicateEmail) || errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating profile: %w", err)
	}

	s.logger.Info(ctx, "profile updated", "user_id", user.ID)
	return updated, nil
}

// EnsureAdmin creates a verified admin account unless email is taken.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return nil
	}
	if err := validatePassword(password); err != nil {
		return fmt.Errorf("admin password: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return common.ErrorInternal
	}

	created, err := s.repomanager.Users(s.db).CreateIfAbsent(ctx, &models.User{
		Email:        email,
		Name:         "Admin User",
		PasswordHash: hash,
		Role:         common.RoleAdmin,
		IsVerified:   true,
	})
	if err != nil {
		return fmt.Errorf("error seeding admin: %w", err)
	}
	if created {
		s.logger.Info(ctx, "default admin created", "email", email)
	}
	return nil
}

// --- helpers below ---

func (s *UserService) signIn(user *models.User) (*AuthResult, error) {
	token, err := auth.GenerateToken(user.ID, user.Role, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &AuthResult{Token: token, User: user}, nil
}

// getDummyHash returns a hash that no password matches, used to keep login
// timing flat for unknown emails.
func (s *UserService) getDummyHash() string {
	s.dummyOnce.Do(func() {
		h, err := auth.HashPassword(uuid.NewString())
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

func codesEqual(stored, candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}
