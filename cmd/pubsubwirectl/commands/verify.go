package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	wiremetrics "github.com/dantte-lp/pubsubwire/internal/metrics"
	"github.com/dantte-lp/pubsubwire/internal/pubsubauth"
)

func verifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check an Authorization token against one pubsubwire operation",
	}
	cmd.AddCommand(verifySubscribeExactCmd())
	cmd.AddCommand(verifyNotifyCmd())
	return cmd
}

func verifySubscribeExactCmd() *cobra.Command {
	var secret, url, recovery, topic, authorization, metricsAddr string
	var lifetime time.Duration

	cmd := &cobra.Command{
		Use:   "subscribe-exact",
		Short: "Verify a SUBSCRIBE_EXACT Authorization token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newStandaloneAuthenticator(secret, lifetime)
			if err != nil {
				return err
			}
			var reg *prometheus.Registry
			if metricsAddr != "" {
				var collector *wiremetrics.Collector
				reg, collector = newMetricsCollector()
				a.Metrics = collector
			}

			outcome := a.IsSubscribeExactAllowed(context.Background(), pubsubauth.SubscribeExactParams{
				URL: url, Recovery: recovery, Topic: []byte(topic),
			}, authorization)
			fmt.Fprintln(cmd.OutOrStdout(), outcome)

			if reg != nil {
				if err := serveMetricsUntilSignal(metricsAddr, reg); err != nil {
					return err
				}
			}
			if outcome != pubsubauth.OutcomeOK {
				return fmt.Errorf("token rejected: %s", outcome)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, secretFlag, "", "url-safe base64 HMAC secret (or set "+secretEnvVar+")")
	cmd.Flags().StringVar(&url, "url", "", "subscriber callback URL")
	cmd.Flags().StringVar(&recovery, "recovery", "", "recovery URL (optional)")
	cmd.Flags().StringVar(&topic, "topic", "", "exact topic name")
	cmd.Flags().StringVar(&authorization, "authorization", "", "the X-HMAC Authorization header value to check")
	cmd.Flags().DurationVar(&lifetime, "token-lifetime", 5*time.Minute, "acceptance window")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "if set, expose auth_outcomes_total on this address until interrupted")
	cmd.MarkFlagRequired("topic")
	cmd.MarkFlagRequired("authorization")
	return cmd
}

func verifyNotifyCmd() *cobra.Command {
	var secret, topic, messageFile, authorization, metricsAddr string
	var lifetime time.Duration

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Verify a NOTIFY Authorization token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newStandaloneAuthenticator(secret, lifetime)
			if err != nil {
				return err
			}
			var reg *prometheus.Registry
			if metricsAddr != "" {
				var collector *wiremetrics.Collector
				reg, collector = newMetricsCollector()
				a.Metrics = collector
			}

			sum, err := readSHA512(cmd, messageFile)
			if err != nil {
				return err
			}
			outcome := a.IsNotifyAllowed(context.Background(), pubsubauth.NotifyParams{
				Topic: []byte(topic), SHA512: sum,
			}, authorization)
			fmt.Fprintln(cmd.OutOrStdout(), outcome)

			if reg != nil {
				if err := serveMetricsUntilSignal(metricsAddr, reg); err != nil {
					return err
				}
			}
			if outcome != pubsubauth.OutcomeOK {
				return fmt.Errorf("token rejected: %s", outcome)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, secretFlag, "", "url-safe base64 HMAC secret (or set "+secretEnvVar+")")
	cmd.Flags().StringVar(&topic, "topic", "", "topic name")
	cmd.Flags().StringVar(&messageFile, "message-file", "", "path to the message body to hash (reads stdin if omitted)")
	cmd.Flags().StringVar(&authorization, "authorization", "", "the X-HMAC Authorization header value to check")
	cmd.Flags().DurationVar(&lifetime, "token-lifetime", 5*time.Minute, "acceptance window")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "if set, expose auth_outcomes_total on this address until interrupted")
	cmd.MarkFlagRequired("topic")
	cmd.MarkFlagRequired("authorization")
	return cmd
}
