package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/starter-api/backend/internal/config"
	"github.com/starter-api/backend/internal/validate"
)

var passwordAttrs []string

var checkPasswordCmd = &cobra.Command{
	Use:   "check-password",
	Short: "Check a password read from stdin against the configured validators",
	Long: "Reads one line from stdin and runs every configured password validator on it.\n" +
		"--attr values (username, email, ...) feed the similarity check.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return errors.New("no password on stdin")
		}
		password := strings.TrimRight(line, "\r\n")

		if err := validate.Password(password, cfg.Authentication.PasswordValidators, passwordAttrs...); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "password accepted")
		return nil
	},
}

func init() {
	checkPasswordCmd.Flags().StringSliceVar(&passwordAttrs, "attr", nil, "user attribute compared for similarity (repeatable)")
}
