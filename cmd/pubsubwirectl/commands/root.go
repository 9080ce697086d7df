package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// secretFlag is the shared --secret flag name across sign/verify.
const secretFlag = "secret"

// secretEnvVar is consulted when --secret is not passed explicitly, so the
// raw key never needs to show up in a shell history.
const secretEnvVar = "PUBSUBWIRE_AUTH_SECRET"

// rootCmd is the top-level cobra command for pubsubwirectl.
var rootCmd = &cobra.Command{
	Use:   "pubsubwirectl",
	Short: "CLI for the pubsubwire HMAC authenticator and wire codec",
	Long:  "pubsubwirectl signs and verifies pubsubwire Authorization tokens, decodes raw wire frames, and runs a standalone replay store.",

	// Silence cobra's built-in usage/error printing so we control it.
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(keygenCmd())
	rootCmd.AddCommand(signCmd())
	rootCmd.AddCommand(verifyCmd())
	rootCmd.AddCommand(codecCmd())
	rootCmd.AddCommand(replayCmd())
	rootCmd.AddCommand(versionCmd())
}

// Execute runs the root command and exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// resolveSecret returns the --secret flag value, falling back to
// PUBSUBWIRE_AUTH_SECRET, and errors if neither is set. The returned string
// is the url-safe base64 form of the 64-byte HMAC secret; callers decode it
// with pubsubauth.DecodeSecret.
func resolveSecret(flagVal string) (string, error) {
	if flagVal != "" {
		return flagVal, nil
	}
	if v := os.Getenv(secretEnvVar); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("no HMAC secret: pass --secret or set %s", secretEnvVar)
}
