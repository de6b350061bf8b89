package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kovalyshyn/workvol/internal/cli"
)

func passwdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "passwd",
		Short: "Change the signed-in account's password",
		RunE:  runPasswd,
	}
}

func runPasswd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	client, _, err := newAPIClient()
	if err != nil {
		return err
	}

	newPassword, err := readPassword("New password: ")
	if err != nil {
		return err
	}
	confirm, err := readPassword("Repeat new password: ")
	if err != nil {
		return err
	}
	if newPassword != confirm {
		return errors.New("passwords do not match")
	}

	if err := client.ChangePassword(ctx, newPassword); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	fmt.Println(cli.SuccessStyle.Render("✓ Password changed"))
	return nil
}
