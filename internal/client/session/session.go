// Package session mirrors the server's authentication flow on the client.
//
// A Manager moves between four states:
//
//	unauthenticated -> awaiting-verification -> authenticated   (signup, verify)
//	unauthenticated -> authenticated                          (login)
//	authenticated -> unauthenticated                          (logout)
//	unauthenticated -> awaiting-password-reset -> unauthenticated (forgot, reset)
//
// Only the token is persisted. Pending signup and reset data live in memory
// and are lost when the client exits.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/biscotto/internal/client/api"
	"github.com/dmitrijs2005/biscotto/internal/client/models"
	"github.com/dmitrijs2005/biscotto/internal/logging"
)

type State int

const (
	Unauthenticated State = iota
	AwaitingVerification
	AwaitingPasswordReset
	Authenticated
)

func (s State) String() string {
	switch s {
	case AwaitingVerification:
		return "awaiting-verification"
	case AwaitingPasswordReset:
		return "awaiting-password-reset"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

var (
	ErrNotAuthenticated = errors.New("not logged in")
	ErrNoPendingSignup  = errors.New("no signup awaiting verification")
	ErrNoPendingReset   = errors.New("no password reset in progress")
)

// AuthAPI is the part of the REST API the session drives.
type AuthAPI interface {
	Signup(ctx context.Context, email, name, password string) (*models.SignupResult, error)
	VerifyEmail(ctx context.Context, userID, code string) (*models.AuthResult, error)
	Login(ctx context.Context, email, password string) (*models.AuthResult, error)
	ForgotPassword(ctx context.Context, email string) (*models.ResetRequest, error)
	ResetPassword(ctx context.Context, userID, code, newPassword string) (string, error)
	Me(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, name, email *string) (*models.User, error)
}

// pending is the in-memory data of an unfinished signup or reset.
type pending struct {
	userID string
	email  string
	code   string
}

type Manager struct {
	mu      sync.RWMutex
	api     AuthAPI
	store   TokenStore
	logger  logging.Logger
	state   State
	token   string
	user    *models.User
	pending pending
}

func NewManager(a AuthAPI, store TokenStore, l logging.Logger) *Manager {
	return &Manager{
		api:    a,
		store:  store,
		logger: l.With("module", "session"),
	}
}

// Token implements api.TokenSource.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// User returns a copy of the signed-in user, or nil.
func (m *Manager) User() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// PendingEmail is the address of the signup or reset in progress.
func (m *Manager) PendingEmail() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pending.email
}

// PendingCode is the code echoed by a server running in demo delivery mode.
func (m *Manager) PendingCode() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pending.code
}

// Init restores a stored token. A token the server no longer accepts is
// discarded and the session stays unauthenticated.
func (m *Manager) Init(ctx context.Context) error {
	token, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load session token: %w", err)
	}
	if token == "" {
		return nil
	}

	m.mu.Lock()
	m.token = token
	m.mu.Unlock()

	user, err := m.api.Me(ctx)
	if err != nil {
		m.logger.Warn(ctx, "stored session rejected", "error", err)
		m.reset(Unauthenticated)
		if cerr := m.store.Clear(ctx); cerr != nil {
			return fmt.Errorf("clear session token: %w", cerr)
		}
		return nil
	}

	m.mu.Lock()
	m.user = user
	m.state = Authenticated
	m.mu.Unlock()

	m.logger.Info(ctx, "session restored", "user_id", user.ID)
	return nil
}

// Close drops in-memory session data. The stored token is kept.
func (m *Manager) Close() error {
	m.reset(Unauthenticated)
	return nil
}

func (m *Manager) reset(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
	m.token = ""
	m.user = nil
	m.pending = pending{}
}

func (m *Manager) authenticate(ctx context.Context, res *models.AuthResult) (*models.User, error) {
	if err := m.store.Save(ctx, res.Token); err != nil {
		return nil, fmt.Errorf("save session token: %w", err)
	}

	user := res.User
	m.mu.Lock()
	m.state = Authenticated
	m.token = res.Token
	m.user = &user
	m.pending = pending{}
	m.mu.Unlock()

	m.logger.Info(ctx, "signed in", "user_id", user.ID)
	out := user
	return &out, nil
}

func (m *Manager) Signup(ctx context.Context, email, name, password string) (*models.SignupResult, error) {
	res, err := m.api.Signup(ctx, email, name, password)
	if err != nil {
		return nil, err
	}

	if err := m.endSession(ctx); err != nil {
		return nil, err
	}

	m.reset(AwaitingVerification)
	m.mu.Lock()
	m.pending = pending{userID: res.UserID, email: email, code: res.VerificationCode}
	m.mu.Unlock()

	return res, nil
}

// Verify confirms the pending signup with code and signs the user in.
func (m *Manager) Verify(ctx context.Context, code string) (*models.User, error) {
	m.mu.RLock()
	state, userID := m.state, m.pending.userID
	m.mu.RUnlock()

	if state != AwaitingVerification {
		return nil, ErrNoPendingSignup
	}

	res, err := m.api.VerifyEmail(ctx, userID, code)
	if err != nil {
		return nil, err
	}
	return m.authenticate(ctx, res)
}

func (m *Manager) Login(ctx context.Context, email, password string) (*models.User, error) {
	res, err := m.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return m.authenticate(ctx, res)
}

// Logout discards the local token. The server keeps no session to end.
func (m *Manager) Logout(ctx context.Context) error {
	m.reset(Unauthenticated)
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	m.logger.Info(ctx, "signed out")
	return nil
}

// endSession signs out first when a new flow starts from a signed-in state.
func (m *Manager) endSession(ctx context.Context) error {
	if m.State() != Authenticated {
		return nil
	}
	return m.Logout(ctx)
}

func (m *Manager) ForgotPassword(ctx context.Context, email string) (*models.ResetRequest, error) {
	res, err := m.api.ForgotPassword(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := m.endSession(ctx); err != nil {
		return nil, err
	}

	m.reset(AwaitingPasswordReset)
	m.mu.Lock()
	m.pending = pending{userID: res.UserID, email: email, code: res.ResetCode}
	m.mu.Unlock()

	return res, nil
}

// ResetPassword completes the pending reset. The user must log in afterwards.
func (m *Manager) ResetPassword(ctx context.Context, code, newPassword string) (string, error) {
	m.mu.RLock()
	state, userID := m.state, m.pending.userID
	m.mu.RUnlock()

	if state != AwaitingPasswordReset {
		return "", ErrNoPendingReset
	}

	msg, err := m.api.ResetPassword(ctx, userID, code, newPassword)
	if err != nil {
		return "", err
	}

	m.reset(Unauthenticated)
	return msg, nil
}

// Refresh reloads the current user. A rejected token ends the session.
func (m *Manager) Refresh(ctx context.Context) (*models.User, error) {
	if m.State() != Authenticated {
		return nil, ErrNotAuthenticated
	}

	user, err := m.api.Me(ctx)
	if err != nil {
		if api.IsUnauthorized(err) {
			_ = m.Logout(ctx)
		}
		return nil, err
	}

	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
	return m.User(), nil
}

func (m *Manager) UpdateProfile(ctx context.Context, name, email *string) (*models.User, error) {
	if m.State() != Authenticated {
		return nil, ErrNotAuthenticated
	}

	user, err := m.api.UpdateProfile(ctx, name, email)
	if err != nil {
		if api.IsUnauthorized(err) {
			_ = m.Logout(ctx)
		}
		return nil, err
	}

	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
	return m.User(), nil
}
