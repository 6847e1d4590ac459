package cmd

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"
)

// randomKey returns n bytes of crypto randomness, base64-encoded the way
// config.FromEnv expects the cookie keys.
func randomKey(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Generate session cookie keys for the auth store",
		Long:  "Prints fresh COOKIE_HASH_KEY and COOKIE_BLOCK_KEY exports. Rotating them invalidates every active session.",
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := randomKey(32)
			if err != nil {
				return err
			}
			block, err := randomKey(32)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "export COOKIE_HASH_KEY=%s\n", hash)
			fmt.Fprintf(cmd.OutOrStdout(), "export COOKIE_BLOCK_KEY=%s\n", block)
			return nil
		},
	}
}
