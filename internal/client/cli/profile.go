package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aloria-app/aloria-client/internal/client/api"
)

// Profile prints the cached profile and then refreshes it from the server.
// A connectivity failure keeps showing the cached copy; an auth failure
// drops the session.
func (a *App) Profile(ctx context.Context) error {
	if err := a.controller.RefreshProfile(ctx); err != nil {
		if errors.Is(err, api.ErrUnavailable) {
			fmt.Printf("Server %s unreachable, showing cached profile\n", a.config.ServerBaseURL)
		} else {
			fmt.Println("Profile refresh failed:", err)
			return err
		}
	}
	a.printProfile()
	return nil
}

// Refresh re-fetches the profile from the server without printing it. A
// connectivity failure leaves the cached copy in place; an auth failure
// drops the session.
func (a *App) Refresh(ctx context.Context) error {
	if err := a.controller.RefreshProfile(ctx); err != nil {
		if errors.Is(err, api.ErrUnavailable) {
			fmt.Printf("Server %s unreachable, keeping cached profile\n", a.config.ServerBaseURL)
			return err
		}
		fmt.Println("Profile refresh failed:", err)
		return err
	}
	fmt.Println("Profile refreshed")
	return nil
}

func (a *App) printProfile() {
	current := a.controller.Current()
	if current == nil {
		fmt.Println("Not logged in")
		return
	}

	avatar := current.AvatarRef
	if avatar == "" {
		// letter fallback, as in the original profile screen
		letter := "?"
		if first := []rune(current.FirstName); len(first) > 0 {
			letter = strings.ToUpper(string(first[0]))
		}
		avatar = "(" + letter + ")"
	}

	fmt.Printf("Avatar: %s\n", avatar)
	fmt.Printf("Name:   %s %s\n", current.FirstName, current.LastName)
	fmt.Printf("Email:  %s\n", current.Email)
}

// Edit walks the profile edit flow: prefilled first/last name prompts,
// empty input keeps the current value, "cancel" for either field discards
// the edit. Email is not editable.
func (a *App) Edit(ctx context.Context) error {
	if err := a.controller.StartEdit(); err != nil {
		return err
	}
	current := a.controller.Current()

	firstName, err := getSimpleText(a.reader, fmt.Sprintf("First name [%s] (or 'cancel')", current.FirstName), os.Stdout)
	if err != nil {
		_ = a.controller.CancelEdit()
		return err
	}
	if firstName == "cancel" {
		fmt.Println("Edit cancelled")
		return a.controller.CancelEdit()
	}
	if firstName == "" {
		firstName = current.FirstName
	}

	lastName, err := getSimpleText(a.reader, fmt.Sprintf("Last name [%s] (or 'cancel')", current.LastName), os.Stdout)
	if err != nil {
		_ = a.controller.CancelEdit()
		return err
	}
	if lastName == "cancel" {
		fmt.Println("Edit cancelled")
		return a.controller.CancelEdit()
	}
	if lastName == "" {
		lastName = current.LastName
	}

	if err := a.controller.SaveProfile(ctx, firstName, lastName); err != nil {
		fmt.Println("Update failed:", err)
		_ = a.controller.CancelEdit()
		return err
	}

	fmt.Println("Profile updated!")
	return nil
}

// Avatar stores a device-local avatar reference for the profile display.
func (a *App) Avatar(ctx context.Context, ref string) error {
	if ref == "" {
		fmt.Println("Usage: avatar <path-or-uri>")
		return nil
	}
	if err := a.controller.SetAvatar(ctx, ref); err != nil {
		fmt.Println("Avatar update failed:", err)
		return err
	}
	fmt.Println("Avatar updated")
	return nil
}
