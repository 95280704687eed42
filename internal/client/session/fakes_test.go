package session

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/biscotto/internal/client/api"
	"github.com/dmitrijs2005/biscotto/internal/client/models"
)

type fakeAPI struct {
	// tokens accepted by Me and UpdateProfile
	validTokens map[string]models.User
	tokens      api.TokenSource

	signupErr error
	verifyErr error
	loginErr  error
	resetErr  error

	meCalls       int
	gotVerifyUser string
	gotResetUser  string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{validTokens: map[string]models.User{}}
}

func (f *fakeAPI) Signup(_ context.Context, email, name, _ string) (*models.SignupResult, error) {
	if f.signupErr != nil {
		return nil, f.signupErr
	}
	return &models.SignupResult{UserID: "u-new", VerificationCode: "123456"}, nil
}

func (f *fakeAPI) VerifyEmail(_ context.Context, userID, code string) (*models.AuthResult, error) {
	f.gotVerifyUser = userID
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	if code != "123456" {
		return nil, &api.Error{Status: http.StatusBadRequest, Message: "Invalid verification code"}
	}
	u := models.User{ID: userID, Email: "new@x.com", IsVerified: true, Role: "customer"}
	f.validTokens["tok-verified"] = u
	return &models.AuthResult{Token: "tok-verified", User: u}, nil
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (*models.AuthResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	if password != "secret1" {
		return nil, &api.Error{Status: http.StatusUnauthorized, Message: "Invalid email or password"}
	}
	u := models.User{ID: "u-1", Email: email, Name: "Ann", Role: "admin"}
	f.validTokens["tok-login"] = u
	return &models.AuthResult{Token: "tok-login", User: u}, nil
}

func (f *fakeAPI) ForgotPassword(_ context.Context, email string) (*models.ResetRequest, error) {
	return &models.ResetRequest{Message: "If the email exists, a reset code has been sent.", UserID: "u-1", ResetCode: "654321"}, nil
}

func (f *fakeAPI) ResetPassword(_ context.Context, userID, code, _ string) (string, error) {
	f.gotResetUser = userID
	if f.resetErr != nil {
		return "", f.resetErr
	}
	return "Password reset successfully", nil
}

func (f *fakeAPI) current() (models.User, error) {
	u, ok := f.validTokens[f.tokens.Token()]
	if !ok {
		return models.User{}, &api.Error{Status: http.StatusUnauthorized, Message: "Invalid token"}
	}
	return u, nil
}

func (f *fakeAPI) Me(context.Context) (*models.User, error) {
	f.meCalls++
	u, err := f.current()
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (f *fakeAPI) UpdateProfile(_ context.Context, name, email *string) (*models.User, error) {
	u, err := f.current()
	if err != nil {
		return nil, err
	}
	if email != nil && *email == "taken@x.com" {
		return nil, &api.Error{Status: http.StatusBadRequest, Message: "Email already in use"}
	}
	if name != nil {
		u.Name = *name
	}
	if email != nil {
		u.Email = *email
	}
	f.validTokens[f.tokens.Token()] = u
	return &u, nil
}

type memStore struct {
	token   string
	loadErr error
	saveErr error
}

func (s *memStore) Load(context.Context) (string, error) { return s.token, s.loadErr }

func (s *memStore) Save(_ context.Context, token string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.token = token
	return nil
}

func (s *memStore) Clear(context.Context) error {
	s.token = ""
	return nil
}

var errBoom = errors.New("boom")
