package commands

import (
	"crypto/sha512"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dantte-lp/pubsubwire/internal/pubsubauth"
	"github.com/dantte-lp/pubsubwire/internal/pubsubauth/replay"
)

func signCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Mint an Authorization token for one pubsubwire operation",
	}
	cmd.AddCommand(signSubscribeExactCmd())
	cmd.AddCommand(signNotifyCmd())
	return cmd
}

// newStandaloneAuthenticator builds an Authenticator with no replay
// persistence, suitable for one-shot CLI sign/verify invocations.
func newStandaloneAuthenticator(secretFlagVal string, lifetime time.Duration) (*pubsubauth.Authenticator, error) {
	raw, err := resolveSecret(secretFlagVal)
	if err != nil {
		return nil, err
	}
	secret, err := pubsubauth.DecodeSecret(raw)
	if err != nil {
		return nil, err
	}
	return pubsubauth.NewAuthenticator(secret, lifetime, &replay.NoneStore{}), nil
}

func signSubscribeExactCmd() *cobra.Command {
	var secret, url, recovery, topic string
	var lifetime time.Duration

	cmd := &cobra.Command{
		Use:   "subscribe-exact",
		Short: "Sign a SUBSCRIBE_EXACT operation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newStandaloneAuthenticator(secret, lifetime)
			if err != nil {
				return err
			}
			token, err := a.AuthorizeSubscribeExact(pubsubauth.SubscribeExactParams{
				URL: url, Recovery: recovery, Topic: []byte(topic),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, secretFlag, "", "url-safe base64 HMAC secret (or set "+secretEnvVar+")")
	cmd.Flags().StringVar(&url, "url", "", "subscriber callback URL")
	cmd.Flags().StringVar(&recovery, "recovery", "", "recovery URL (optional)")
	cmd.Flags().StringVar(&topic, "topic", "", "exact topic name")
	cmd.Flags().DurationVar(&lifetime, "token-lifetime", 5*time.Minute, "acceptance window")
	cmd.MarkFlagRequired("topic")
	return cmd
}

func signNotifyCmd() *cobra.Command {
	var secret, topic, messageFile string
	var lifetime time.Duration

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Sign a NOTIFY operation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newStandaloneAuthenticator(secret, lifetime)
			if err != nil {
				return err
			}
			sum, err := readSHA512(cmd, messageFile)
			if err != nil {
				return err
			}
			token, err := a.AuthorizeNotify(pubsubauth.NotifyParams{Topic: []byte(topic), SHA512: sum})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, secretFlag, "", "url-safe base64 HMAC secret (or set "+secretEnvVar+")")
	cmd.Flags().StringVar(&topic, "topic", "", "topic name")
	cmd.Flags().StringVar(&messageFile, "message-file", "", "path to the message body to hash (reads stdin if omitted)")
	cmd.Flags().DurationVar(&lifetime, "token-lifetime", 5*time.Minute, "acceptance window")
	cmd.MarkFlagRequired("topic")
	return cmd
}

// readSHA512 hashes the file at path, or stdin when path is empty.
func readSHA512(cmd *cobra.Command, path string) ([64]byte, error) {
	var r interface {
		Read([]byte) (int, error)
	}
	if path == "" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return [64]byte{}, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	h := sha512.New()
	if _, err := io.Copy(h, r); err != nil && !errors.Is(err, io.EOF) {
		return [64]byte{}, fmt.Errorf("read message: %w", err)
	}
	var out [64]byte
	copy(out[:], h.Sum(nil))
	return out, nil
}
