package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"nomadtool/internal/encoder"
)

func newEncodersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "encoders",
		Short: "Probe the transcoder for hardware encoder support",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			client, err := encoder.New(cfg.Transcoder.Binary, time.Duration(cfg.Transcoder.TimeoutHours)*time.Hour)
			if err != nil {
				return fmt.Errorf("create encoder client: %w", err)
			}

			encoderID := client.DetectEncoder(cmd.Context())
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Transcoder binary: %s\n", cfg.Transcoder.Binary)
			if encoderID == encoder.SoftwareEncoder {
				fmt.Fprintf(out, "Selected encoder: %s (software fallback)\n", encoderID)
			} else {
				fmt.Fprintf(out, "Selected encoder: %s (hardware)\n", encoderID)
			}
			return nil
		},
	}
}
