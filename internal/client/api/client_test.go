package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/biscotto/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method      string
	path        string
	auth        string
	contentType string
	body        []byte
}

func newTestClient(t *testing.T, token string, status int, resp any) (*Client, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.EscapedPath()
		rec.auth = r.Header.Get("Authorization")
		rec.contentType = r.Header.Get("Content-Type")
		rec.body, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if resp != nil {
			_ = json.NewEncoder(w).Encode(resp)
		}
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL+"/api/", time.Second, TokenFunc(func() string { return token }))
	return c, rec
}

func decodeSent(t *testing.T, rec *recorded) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.body, &m))
	return m
}

func TestSignup(t *testing.T) {
	c, rec := newTestClient(t, "", http.StatusCreated, map[string]any{
		"message":          "User created successfully. Please verify your email.",
		"userId":           "u-1",
		"verificationCode": "123456",
	})

	res, err := c.Signup(context.Background(), "a@x.com", "Ann", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", res.UserID)
	assert.Equal(t, "123456", res.VerificationCode)

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/api/auth/signup", rec.path)
	assert.Empty(t, rec.auth)
	assert.Equal(t, "application/json", rec.contentType)
	assert.Equal(t, map[string]any{"email": "a@x.com", "name": "Ann", "password": "secret1"}, decodeSent(t, rec))
}

func TestLogin_ReturnsTokenAndUser(t *testing.T) {
	c, rec := newTestClient(t, "", http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   "tok",
		"user":    map[string]any{"id": "u-1", "email": "a@x.com", "role": "admin"},
	})

	res, err := c.Login(context.Background(), "a@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)
	assert.True(t, res.User.IsAdmin())
	assert.Equal(t, "/api/auth/login", rec.path)
}

func TestVerifyForgotReset(t *testing.T) {
	ctx := context.Background()

	c, rec := newTestClient(t, "", http.StatusOK, map[string]any{"token": "t", "user": map[string]any{"id": "u"}})
	res, err := c.VerifyEmail(ctx, "u", "111111")
	require.NoError(t, err)
	assert.Equal(t, "t", res.Token)
	assert.Equal(t, map[string]any{"userId": "u", "code": "111111"}, decodeSent(t, rec))

	c, rec = newTestClient(t, "", http.StatusOK, map[string]any{"message": "m", "userId": "u", "resetCode": "222222"})
	rr, err := c.ForgotPassword(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", rr.ResetCode)
	assert.Equal(t, "/api/auth/forgot-password", rec.path)

	c, rec = newTestClient(t, "", http.StatusOK, map[string]any{"message": "Password reset successfully"})
	msg, err := c.ResetPassword(ctx, "u", "222222", "newpass")
	require.NoError(t, err)
	assert.Equal(t, "Password reset successfully", msg)
	assert.Equal(t, "newpass", decodeSent(t, rec)["newPassword"])
}

func TestMe_SendsBearerToken(t *testing.T) {
	c, rec := newTestClient(t, "abc", http.StatusOK, map[string]any{"user": map[string]any{"id": "u-1", "name": "Ann"}})

	u, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ann", u.Name)
	assert.Equal(t, "Bearer abc", rec.auth)
	assert.Equal(t, http.MethodGet, rec.method)
	assert.Empty(t, rec.body)
}

func TestUpdateProfile_OmitsNilFields(t *testing.T) {
	c, rec := newTestClient(t, "abc", http.StatusOK, map[string]any{"user": map[string]any{"name": "Bee"}})

	name := "Bee"
	u, err := c.UpdateProfile(context.Background(), &name, nil)
	require.NoError(t, err)
	assert.Equal(t, "Bee", u.Name)
	assert.Equal(t, map[string]any{"name": "Bee"}, decodeSent(t, rec))
	assert.Equal(t, http.MethodPut, rec.method)
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		resp       any
		wantMsg    string
		wantFields map[string]string
	}{
		{
			name:    "message",
			status:  http.StatusUnauthorized,
			resp:    map[string]any{"message": "Invalid email or password"},
			wantMsg: "Invalid email or password",
		},
		{
			name:       "field errors",
			status:     http.StatusBadRequest,
			resp:       map[string]any{"message": "Validation failed", "errors": map[string]string{"email": "must be a valid email"}},
			wantMsg:    "Validation failed",
			wantFields: map[string]string{"email": "must be a valid email"},
		},
		{
			name:    "development detail",
			status:  http.StatusInternalServerError,
			resp:    map[string]any{"message": "Something went wrong!", "error": "boom"},
			wantMsg: "Something went wrong!: boom",
		},
		{
			name:    "no body",
			status:  http.StatusBadGateway,
			wantMsg: "Bad Gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, "", tt.status, tt.resp)

			_, err := c.Login(context.Background(), "a@x.com", "pw")
			require.Error(t, err)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.Equal(t, tt.wantFields, apiErr.Fields)
			assert.Equal(t, tt.status, StatusOf(err))
		})
	}
}

func TestError_String(t *testing.T) {
	e := &Error{Status: 400, Message: "Validation failed", Fields: map[string]string{"password": "too short", "email": "invalid"}}
	assert.Equal(t, "Validation failed (email: invalid; password: too short)", e.Error())
	assert.Equal(t, "x", (&Error{Message: "x"}).Error())
}

func TestIsUnauthorized(t *testing.T) {
	assert.True(t, IsUnauthorized(&Error{Status: http.StatusUnauthorized}))
	assert.False(t, IsUnauthorized(&Error{Status: http.StatusForbidden}))
	assert.False(t, IsUnauthorized(io.EOF))
	assert.Equal(t, 0, StatusOf(nil))
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, time.Second, nil)
	_, err := c.ListProducts(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, StatusOf(err))
}

func TestMalformedSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	t.Cleanup(srv.Close)

	_, err := New(srv.URL, time.Second, nil).ListProducts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestSettings(t *testing.T) {
	ctx := context.Background()

	c, rec := newTestClient(t, "", http.StatusOK, map[string]any{"settings": map[string]any{"heroTitle": "Simple"}})
	h, err := c.GetHome(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Simple", h.HeroTitle)
	assert.Equal(t, "/api/settings/home", rec.path)

	c, rec = newTestClient(t, "", http.StatusOK, map[string]any{"settings": map[string]any{"founderQuote": "Q"}})
	a, err := c.GetAbout(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Q", a.FounderQuote)
	assert.Equal(t, "/api/settings/about", rec.path)

	title := "Fresh"
	c, rec = newTestClient(t, "adm", http.StatusOK, map[string]any{"settings": map[string]any{"heroTitle": "Fresh"}})
	h, err = c.UpdateHome(ctx, models.HomeSettingsInput{HeroTitle: &title})
	require.NoError(t, err)
	assert.Equal(t, "Fresh", h.HeroTitle)
	assert.Equal(t, map[string]any{"heroTitle": "Fresh"}, decodeSent(t, rec))
	assert.Equal(t, "Bearer adm", rec.auth)

	images := []string{"a.jpg"}
	c, rec = newTestClient(t, "adm", http.StatusOK, map[string]any{"settings": map[string]any{"collageImages": images}})
	a, err = c.UpdateAbout(ctx, models.AboutSettingsInput{CollageImages: &images})
	require.NoError(t, err)
	assert.Equal(t, images, a.CollageImages)
	assert.Equal(t, http.MethodPut, rec.method)
}
