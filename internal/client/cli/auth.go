package cli

import (
	"context"
	"fmt"
	"os"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a full name, email, and password and attempts to
// create an account. On success the user is logged in right away, matching
// the register-then-profile flow of the original clients.
func (a *App) Register(ctx context.Context) error {
	fullName, err := getSimpleText(a.reader, "Enter full name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.controller.Register(ctx, fullName, email, password); err != nil {
		fmt.Println("Registration failed:", err)
		return err
	}

	fmt.Println("Registered successfully!")
	return nil
}

// Login prompts for an identifier (email or username) and password and
// tries to authenticate.
func (a *App) Login(ctx context.Context) error {
	identifier, err := getSimpleText(a.reader, "Enter email or username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.controller.Login(ctx, identifier, password); err != nil {
		fmt.Println("Login failed:", err)
		return err
	}

	fmt.Println("Logged in!")
	return nil
}

// Logout clears the local session; the remote call outcome never blocks it.
func (a *App) Logout(ctx context.Context) error {
	if err := a.controller.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}
