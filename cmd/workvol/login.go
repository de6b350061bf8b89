package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kovalyshyn/workvol/internal/cli"
)

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the backend",
		Long: `Sign in with your email and password.

The issued token is saved under your data directory and used by every
other command until you run workvol logout.`,
		RunE: runLogin,
	}

	cmd.Flags().String("email", "", "account email (prompted when omitted)")

	return cmd
}

func runLogin(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		fmt.Print("Email: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}
	if email == "" {
		return errors.New("email is required")
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}

	client, store, err := newAPIClient()
	if err != nil {
		return err
	}

	token, err := client.SignIn(ctx, email, password)
	if err != nil {
		return fmt.Errorf("sign-in failed: %w", err)
	}

	if err := store.Save(token, email); err != nil {
		return err
	}

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Signed in as %s", email)))
	return nil
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the saved session",
		RunE: func(_ *cobra.Command, _ []string) error {
			store, err := newSessionStore()
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Println(cli.SuccessStyle.Render("✓ Signed out"))
			return nil
		},
	}
}

// readPassword reads a line without echo.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	data, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	password := strings.TrimSpace(string(data))
	if password == "" {
		return "", errors.New("password is required")
	}
	return password, nil
}
