package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	current := a.controller.Current()
	if current == nil {
		return ""
	}
	return fmt.Sprintf("(%s)", current.Email)
}

func (a *App) Root(ctx context.Context) {

	fmt.Println("Welcome to aloria (type 'help' for commands)")

	if err := a.controller.Restore(ctx); err != nil {
		fmt.Println("Could not restore session:", err)
	}
	if a.isLoggedIn() {
		a.printProfile()
	}

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("aloria %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: profile, refresh, edit, avatar <ref>, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "profile":
			_ = a.Profile(ctx)
		case "refresh":
			_ = a.Refresh(ctx)
		case "edit":
			_ = a.Edit(ctx)
		case "avatar":
			ref := ""
			if len(args) > 0 {
				ref = args[0]
			}
			_ = a.Avatar(ctx, ref)
		case "logout":
			_ = a.Logout(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}
