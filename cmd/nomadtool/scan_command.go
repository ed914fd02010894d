package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"nomadtool/internal/config"
	"nomadtool/internal/encoder"
	"nomadtool/internal/media"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <file>",
		Short: "Probe a video file's audio and subtitle tracks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			path, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			item, err := media.NewItem("scan", path)
			if err != nil {
				return err
			}

			client, err := encoder.New(cfg.Transcoder.Binary, time.Duration(cfg.Transcoder.TimeoutHours)*time.Hour)
			if err != nil {
				return fmt.Errorf("create encoder client: %w", err)
			}
			if err := client.Scan(cmd.Context(), item); err != nil {
				return fmt.Errorf("scan %s: %w", path, err)
			}

			out := cmd.OutOrStdout()
			duration := time.Duration(item.DurationSeconds * float64(time.Second)).Round(time.Second)
			fmt.Fprintf(out, "Duration: %s\n\n", duration)

			rows := make([][]string, 0, len(item.AudioTracks)+len(item.SubtitleTracks))
			for _, track := range append(item.AudioTracks, item.SubtitleTracks...) {
				selected := ""
				if item.AudioTrack != nil && track.Type == media.TrackAudio && track.Index == item.AudioTrack.Index {
					selected = "*"
				}
				rows = append(rows, []string{
					strconv.Itoa(track.Index),
					string(track.Type),
					track.Language,
					track.Name,
					selected,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Stream", "Type", "Language", "Title", "Selected"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
