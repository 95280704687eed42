package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/biscotto/internal/common"
	"github.com/dmitrijs2005/biscotto/internal/dbx"
	"github.com/dmitrijs2005/biscotto/internal/server/images"
	"github.com/dmitrijs2005/biscotto/internal/server/models"
	"github.com/dmitrijs2005/biscotto/internal/server/notify"
	"github.com/dmitrijs2005/biscotto/internal/server/repositories/assets"
	"github.com/dmitrijs2005/biscotto/internal/server/repositories/products"
	"github.com/dmitrijs2005/biscotto/internal/server/repositories/settings"
	"github.com/dmitrijs2005/biscotto/internal/server/repositories/users"
)

// --- helpers ---

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// --- users ---

type fakeUsersRepo struct {
	mu        sync.Mutex
	byID      map[string]*models.User
	seq       int
	getErr    error
	createErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}}
}

func (f *fakeUsersRepo) copyOf(u *models.User) *models.User {
	c := *u
	return &c
}

func (f *fakeUsersRepo) findEmail(email string) *models.User {
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.findEmail(u.Email) != nil {
		return nil, common.ErrorDuplicateEmail
	}
	f.seq++
	u.ID = fmt.Sprintf("u-%d", f.seq)
	u.CreatedAt = time.Now()
	f.byID[u.ID] = f.copyOf(u)
	return u, nil
}

func (f *fakeUsersRepo) CreateIfAbsent(ctx context.Context, u *models.User) (bool, error) {
	if _, err := f.Create(ctx, u); err != nil {
		if errors.Is(err, common.ErrorDuplicateEmail) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return f.copyOf(u), nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u := f.findEmail(email)
	if u == nil {
		return nil, common.ErrorNotFound
	}
	return f.copyOf(u), nil
}

func (f *fakeUsersRepo) mutate(id string, fn func(u *models.User)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	fn(u)
	return nil
}

func (f *fakeUsersRepo) MarkVerified(ctx context.Context, id string) error {
	return f.mutate(id, func(u *models.User) { u.IsVerified = true; u.VerificationCode = nil })
}

func (f *fakeUsersRepo) SetResetCode(ctx context.Context, id string, code string, expiry time.Time) error {
	return f.mutate(id, func(u *models.User) { u.ResetCode = &code; u.ResetCodeExpiry = &expiry })
}

func (f *fakeUsersRepo) ResetPassword(ctx context.Context, id string, hash string) error {
	return f.mutate(id, func(u *models.User) { u.PasswordHash = hash; u.ResetCode = nil; u.ResetCodeExpiry = nil })
}

func (f *fakeUsersRepo) UpdateProfile(ctx context.Context, id string, name string, email string) (*models.User, error) {
	f.mu.Lock()
	if other := f.findEmail(email); other != nil && other.ID != id {
		f.mu.Unlock()
		return nil, common.ErrorDuplicateEmail
	}
	f.mu.Unlock()
	if err := f.mutate(id, func(u *models.User) { u.Name = name; u.Email = email }); err != nil {
		return nil, err
	}
	return f.GetByID(ctx, id)
}

// --- products ---

type fakeProductsRepo struct {
	mu        sync.Mutex
	items     map[string]*models.Product
	seq       int
	createErr error
	updateErr error
}

func newFakeProductsRepo() *fakeProductsRepo {
	return &fakeProductsRepo{items: map[string]*models.Product{}}
}

func (f *fakeProductsRepo) sorted(filter func(*models.Product) bool) []models.Product {
	out := make([]models.Product, 0)
	for _, p := range f.items {
		if filter == nil || filter(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeProductsRepo) List(ctx context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(nil), nil
}

func (f *fakeProductsRepo) ListByCategory(ctx context.Context, pattern string) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pattern = strings.ToLower(pattern)
	return f.sorted(func(p *models.Product) bool { return strings.Contains(strings.ToLower(p.Category), pattern) }), nil
}

func (f *fakeProductsRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *p
	return &c, nil
}

func (f *fakeProductsRepo) GetByIDForUpdate(ctx context.Context, id string) (*models.Product, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeProductsRepo) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.seq++
	p.ID = fmt.Sprintf("p-%d", f.seq)
	p.CreatedAt = time.Now().Add(time.Duration(f.seq) * time.Millisecond)
	p.UpdatedAt = p.CreatedAt
	c := *p
	f.items[p.ID] = &c
	return p, nil
}

func (f *fakeProductsRepo) Update(ctx context.Context, p *models.Product) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if _, ok := f.items[p.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	p.UpdatedAt = time.Now()
	c := *p
	f.items[p.ID] = &c
	return p, nil
}

func (f *fakeProductsRepo) Delete(ctx context.Context, id string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(f.items, id)
	return p, nil
}

// --- settings ---

type fakeSettingsRepo struct {
	mu      sync.Mutex
	docs    map[string]settings.Document
	ensures int
	getErr  error
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{docs: map[string]settings.Document{}}
}

func (f *fakeSettingsRepo) Ensure(ctx context.Context, typ string, defaults json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensures++
	if _, ok := f.docs[typ]; !ok {
		f.docs[typ] = settings.Document{Type: typ, Data: defaults, UpdatedAt: time.Now()}
	}
	return nil
}

func (f *fakeSettingsRepo) Get(ctx context.Context, typ string) (*settings.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	d, ok := f.docs[typ]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &d, nil
}

func (f *fakeSettingsRepo) GetForUpdate(ctx context.Context, typ string) (*settings.Document, error) {
	return f.Get(ctx, typ)
}

func (f *fakeSettingsRepo) Put(ctx context.Context, typ string, data json.RawMessage) (*settings.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := settings.Document{Type: typ, Data: data, UpdatedAt: time.Now()}
	f.docs[typ] = d
	return &d, nil
}

// --- assets ---

type fakeAssetsRepo struct {
	mu         sync.Mutex
	pending    map[string]*models.OrphanedAsset
	enqueueErr error
}

func newFakeAssetsRepo() *fakeAssetsRepo {
	return &fakeAssetsRepo{pending: map[string]*models.OrphanedAsset{}}
}

func (f *fakeAssetsRepo) Enqueue(ctx context.Context, id string, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.enqueueErr != nil {
		return f.enqueueErr
	}
	if _, ok := f.pending[id]; !ok {
		f.pending[id] = &models.OrphanedAsset{PublicID: id, Reason: reason, CreatedAt: time.Now()}
	}
	return nil
}

func (f *fakeAssetsRepo) Remove(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.pending, id)
	return nil
}

func (f *fakeAssetsRepo) ListPending(ctx context.Context, limit int) ([]models.OrphanedAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.OrphanedAsset, 0, len(f.pending))
	for _, a := range f.pending {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublicID < out[j].PublicID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeAssetsRepo) MarkAttempt(ctx context.Context, id string, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.pending[id]; ok {
		a.Attempts++
		a.Reason = reason
	}
	return nil
}

func (f *fakeAssetsRepo) has(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.pending[id]
	return ok
}

// --- repo manager ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	p *fakeProductsRepo
	s *fakeSettingsRepo
	a *fakeAssetsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u: newFakeUsersRepo(),
		p: newFakeProductsRepo(),
		s: newFakeSettingsRepo(),
		a: newFakeAssetsRepo(),
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository           { return m.u }
func (m *fakeRepoManager) Products(db dbx.DBTX) products.Repository     { return m.p }
func (m *fakeRepoManager) Settings(db dbx.DBTX) settings.Repository     { return m.s }
func (m *fakeRepoManager) Assets(db dbx.DBTX) assets.Repository         { return m.a }

// --- image store ---

type fakeImages struct {
	mu        sync.Mutex
	seq       int
	stored    map[string][]byte
	deleted   []string
	uploadErr error
	deleteErr error
}

func newFakeImages() *fakeImages { return &fakeImages{stored: map[string][]byte{}} }

func (f *fakeImages) Upload(ctx context.Context, data []byte, contentType string) (*images.Uploaded, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorUpstream, f.uploadErr)
	}
	f.seq++
	key := fmt.Sprintf("products/img-%d", f.seq)
	f.stored[key] = data
	return &images.Uploaded{URL: "https://cdn.test/" + key, PublicID: key}, nil
}

func (f *fakeImages) Delete(ctx context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return fmt.Errorf("%w: %v", common.ErrorUpstream, f.deleteErr)
	}
	f.deleted = append(f.deleted, publicID)
	delete(f.stored, publicID)
	return nil
}

// --- notifier ---

type sentCode struct {
	to      string
	purpose notify.Purpose
	code    string
}

type fakeNotifier struct {
	echo bool
	err  error
	sent []sentCode
}

func (f *fakeNotifier) SendCode(ctx context.Context, to string, p notify.Purpose, code string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentCode{to: to, purpose: p, code: code})
	return nil
}

func (f *fakeNotifier) EchoCodes() bool { return f.echo }
