package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	wiremetrics "github.com/dantte-lp/pubsubwire/internal/metrics"
	"github.com/dantte-lp/pubsubwire/internal/pubsubwire/wire"
)

func codecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codec",
		Short: "Inspect raw pubsubwire frames",
	}
	cmd.AddCommand(codecDecodeCmd())
	return cmd
}

func codecDecodeCmd() *cobra.Command {
	var direction, input, metricsAddr string

	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Parse a hex-encoded frame and print its fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := readHex(cmd, input)
			if err != nil {
				return err
			}

			var reg *prometheus.Registry
			var collector wire.CodecRecorder
			if metricsAddr != "" {
				var c *wiremetrics.Collector
				reg, c = newMetricsCollector()
				collector = c
			}

			switch direction {
			case "s2b":
				var msg wire.S2BMessage
				if collector != nil {
					msg, err = wire.ParseS2BFrameRecording(raw, collector)
				} else {
					msg, err = wire.ParseS2BFrame(raw)
				}
				if err != nil {
					return fmt.Errorf("decode s2b frame: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%T %+v\n", msg, msg)
			case "b2s":
				var msg wire.B2SMessage
				if collector != nil {
					msg, err = wire.ParseB2SFrameRecording(raw, collector)
				} else {
					msg, err = wire.ParseB2SFrame(raw)
				}
				if err != nil {
					return fmt.Errorf("decode b2s frame: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%T %+v\n", msg, msg)
			default:
				return fmt.Errorf("--direction must be s2b or b2s, got %q", direction)
			}

			if reg != nil {
				return serveMetricsUntilSignal(metricsAddr, reg)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&direction, "direction", "s2b", "frame direction: s2b or b2s")
	cmd.Flags().StringVar(&input, "hex", "", "hex-encoded frame bytes (reads stdin if omitted)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "if set, expose codec_messages_total/codec_errors_total on this address until interrupted")
	return cmd
}

// readHex decodes hex text from the --hex flag, or stdin when it is empty.
// Whitespace between byte pairs is tolerated so piped `xxd`-style output
// works unmodified.
func readHex(cmd *cobra.Command, flagVal string) ([]byte, error) {
	text := flagVal
	if text == "" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}

	text = strings.Join(strings.Fields(text), "")
	raw, err := hex.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return raw, nil
}
