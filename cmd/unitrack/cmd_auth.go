package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yigit/unitrack/internal/pkg/auth"
)

// hashPassphraseCmd prints the bcrypt hash for auth.passphrase_hash
var hashPassphraseCmd = &cobra.Command{
	Use:   "hash-passphrase [passphrase]",
	Short: "Hash a passphrase for the auth config",
	Long: `Hash a passphrase for auth.passphrase_hash (or AUTH_PASSPHRASE_HASH).

Without an argument the passphrase is read from the first line of stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHashPassphrase,
}

func runHashPassphrase(cmd *cobra.Command, args []string) error {
	var passphrase string
	if len(args) == 1 {
		passphrase = args[0]
	} else {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read passphrase: %w", err)
		}
		passphrase = strings.TrimRight(line, "\r\n")
	}
	if passphrase == "" {
		return fmt.Errorf("passphrase must not be empty")
	}

	hash, err := auth.HashPassphrase(passphrase)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}
