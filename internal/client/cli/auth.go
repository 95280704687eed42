package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/biscotto/internal/client/models"
	"github.com/dmitrijs2005/biscotto/internal/shared"
)

var (
	errEmptyInput    = errors.New("input must not be empty")
	errAlreadyLogged = errors.New("already logged in, run 'logout' first")
)

// getPassword is an indirection over GetPassword used by tests.
var getPassword = GetPassword

// readSecret asks for a password and returns it as a string, wiping the
// raw bytes.
func (a *App) readSecret(prompt string) (string, error) {
	pw, err := getPassword(a.out, prompt)
	if err != nil {
		return "", err
	}
	defer shared.WipeByteArray(pw)
	if len(pw) == 0 {
		return "", errEmptyInput
	}
	return string(pw), nil
}

func (a *App) required(prompt string) (string, error) {
	s, err := GetSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", errEmptyInput
	}
	return s, nil
}

func printUser(u *models.User) {
	verified := "no"
	if u.IsVerified {
		verified = "yes"
	}
	printlnFn(fmt.Sprintf("ID:       %s", u.ID))
	printlnFn(fmt.Sprintf("Name:     %s", u.Name))
	printlnFn(fmt.Sprintf("Email:    %s", u.Email))
	printlnFn(fmt.Sprintf("Role:     %s", u.Role))
	printlnFn(fmt.Sprintf("Verified: %s", verified))
}

// Signup creates an account and waits for the verification code.
func (a *App) Signup(ctx context.Context, _ []string) error {
	if a.isLoggedIn() {
		return errAlreadyLogged
	}

	email, err := a.required("Email")
	if err != nil {
		return err
	}
	name, err := a.required("Name")
	if err != nil {
		return err
	}
	password, err := a.readSecret("Password (min 6 characters)")
	if err != nil {
		return err
	}

	res, err := a.session.Signup(ctx, email, name, password)
	if err != nil {
		return err
	}

	printlnFn(res.Message)
	if res.VerificationCode != "" {
		printlnFn("Verification code:", res.VerificationCode)
	}
	printlnFn("Run 'verify' with the code to activate your account.")
	return nil
}

func (a *App) Verify(ctx context.Context, args []string) error {
	code, err := a.arg(args, "Verification code")
	if err != nil {
		return err
	}

	u, err := a.session.Verify(ctx, code)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Email verified successfully. Welcome, %s!", displayName(u.Name, u.Email)))
	return nil
}

func (a *App) Login(ctx context.Context, _ []string) error {
	if a.isLoggedIn() {
		return errAlreadyLogged
	}

	email, err := a.required("Email")
	if err != nil {
		return err
	}
	password, err := a.readSecret("Password")
	if err != nil {
		return err
	}

	u, err := a.session.Login(ctx, email, password)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Login successful. Welcome, %s!", displayName(u.Name, u.Email)))
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	printlnFn("Logged out.")
	return nil
}

func (a *App) Forgot(ctx context.Context, _ []string) error {
	email, err := a.required("Email")
	if err != nil {
		return err
	}

	res, err := a.session.ForgotPassword(ctx, email)
	if err != nil {
		return err
	}

	printlnFn(res.Message)
	if res.ResetCode != "" {
		printlnFn("Reset code:", res.ResetCode)
	}
	printlnFn("Run 'reset' with the code to choose a new password.")
	return nil
}

func (a *App) Reset(ctx context.Context, args []string) error {
	code, err := a.arg(args, "Reset code")
	if err != nil {
		return err
	}
	password, err := a.readSecret("New password (min 6 characters)")
	if err != nil {
		return err
	}

	msg, err := a.session.ResetPassword(ctx, code, password)
	if err != nil {
		return err
	}
	printlnFn(msg)
	printlnFn("Please log in with your new password.")
	return nil
}

func (a *App) Me(ctx context.Context, _ []string) error {
	u, err := a.session.Refresh(ctx)
	if err != nil {
		return err
	}
	printUser(u)
	return nil
}

func (a *App) Profile(ctx context.Context, _ []string) error {
	if !a.isLoggedIn() {
		return errLoginRequired
	}

	name, err := GetOptionalText(a.reader, "Name", a.out)
	if err != nil {
		return err
	}
	email, err := GetOptionalText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	if name == nil && email == nil {
		printlnFn("Nothing to update.")
		return nil
	}

	u, err := a.session.UpdateProfile(ctx, name, email)
	if err != nil {
		return err
	}
	printlnFn("Profile updated successfully")
	printUser(u)
	return nil
}
