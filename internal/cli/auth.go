package cli

import (
	"context"
	"errors"
	"os"

	"github.com/dmitrijs2005/fakeye/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in
// tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for an email, username and password and creates an
// account. On success the new account is logged in immediately.
//
// The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.auth.Register(ctx, email, username, password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			printlnFn("An account with that email already exists.")
			return nil
		}
		printlnFn("Registration failed:", err.Error())
		return err
	}

	printlnFn("Welcome,", user.Username)
	return nil
}

// Login prompts for credentials and authenticates. Wrong credentials are
// reported to the user inline, not returned as an error.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.auth.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidCredentials) {
			printlnFn("Invalid email or password.")
			return nil
		}
		printlnFn("Login failed:", err.Error())
		return err
	}

	printlnFn("Welcome back,", user.Username)
	return nil
}

// Logout drops the current session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		printlnFn("Logout failed:", err.Error())
		return err
	}
	printlnFn("Logged out.")
	return nil
}
