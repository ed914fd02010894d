package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"nomadtool/internal/config"
	"nomadtool/internal/encoder"
	"nomadtool/internal/logging"
	"nomadtool/internal/media"
	"nomadtool/internal/metadata"
	"nomadtool/internal/orchestrator"
	"nomadtool/internal/planner"
	"nomadtool/internal/services/library"
	"nomadtool/internal/services/omdb"
	"nomadtool/internal/transfer"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var presetLabel string

	cmd := &cobra.Command{
		Use:   "run <file> [file...]",
		Short: "Process dropped files into the library",
		Long: `Classify the given files, enrich their metadata, optionally transcode
video, and transfer each item to the configured destination. Items are
processed one at a time; a failed item does not stop the rest of the batch.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			var preset *media.Preset
			if label := strings.TrimSpace(presetLabel); label != "" {
				resolved, ok := media.PresetByLabel(label)
				if !ok {
					return fmt.Errorf("unknown preset %q (available: %s)", label, presetLabels())
				}
				preset = &resolved
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			logger, closer, err := ctx.newLogger(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			if closer != nil {
				defer closer.Close()
			}

			lock := flock.New(filepath.Join(cfg.Paths.StagingDir, "nomadtool.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire run lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another nomadtool run is already in progress")
			}
			defer lock.Unlock()

			orch, err := buildOrchestrator(cfg, logger)
			if err != nil {
				return err
			}

			batch, err := orchestrator.NewBatch(args)
			if err != nil {
				return err
			}
			if preset != nil {
				for _, item := range batch.Items {
					if item.IsVideo() {
						selected := *preset
						item.SelectedPreset = &selected
					}
				}
			}

			runErr := orch.Run(signalCtx, batch)
			printBatchSummary(cmd, batch)
			return runErr
		},
	}

	cmd.Flags().StringVar(&presetLabel, "preset", "", "Transcode preset for video items (default: direct copy)")
	return cmd
}

func buildOrchestrator(cfg *config.Config, logger *slog.Logger) (*orchestrator.Orchestrator, error) {
	plan := planner.New(cfg.Transcoder.Container)

	transferLogger := logging.NewComponentLogger(logger, "transfer")
	shares := transfer.NewShareManager(nil, transferLogger)
	copier := transfer.NewCopier(shares,
		transfer.WithBufferSize(cfg.Transfer.BufferBytes),
		transfer.WithRetries(cfg.Transfer.Retries),
		transfer.WithBackoff(time.Duration(cfg.Transfer.RetryBackoffSeconds)*time.Second),
		transfer.WithDeleteSource(cfg.Transfer.DeleteSource),
		transfer.WithCopierLogger(transferLogger),
	)

	opts := []orchestrator.Option{
		orchestrator.WithShareManager(shares),
		orchestrator.WithSpacePlanner(transfer.NewSpacePlanner(nil, cfg.Transfer.FreeSpacePercent, transferLogger)),
		orchestrator.WithLogger(logging.NewComponentLogger(logger, "orchestrator")),
	}

	encoderClient, err := encoder.New(cfg.Transcoder.Binary, time.Duration(cfg.Transcoder.TimeoutHours)*time.Hour,
		encoder.WithLogger(logging.NewComponentLogger(logger, "encoder")))
	if err != nil {
		return nil, fmt.Errorf("create encoder client: %w", err)
	}
	opts = append(opts, orchestrator.WithTranscoder(encoderClient))

	if cfg.Metadata.Enabled {
		omdbClient, err := omdb.New(cfg.OMDB.APIKey, cfg.OMDB.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("create OMDb client: %w", err)
		}
		enricher := metadata.NewEnricher(omdbClient,
			metadata.WithWorkers(cfg.Metadata.Workers),
			metadata.WithSimilarityThreshold(cfg.Metadata.SimilarityThreshold),
			metadata.WithTimeout(time.Duration(cfg.OMDB.TimeoutSeconds)*time.Second),
			metadata.WithLogger(logging.NewComponentLogger(logger, "metadata")),
		)
		opts = append(opts, orchestrator.WithEnricher(enricher))
		if cfg.Metadata.Posters {
			opts = append(opts, orchestrator.WithPosterFetcher(metadata.NewPosterFetcher(nil)))
		}
	}

	if cfg.Library.Enabled {
		libraryClient, err := library.New(cfg.Library.URL, cfg.Library.Password,
			library.WithTimeout(time.Duration(cfg.Library.TimeoutSeconds)*time.Second))
		if err != nil {
			return nil, fmt.Errorf("create library client: %w", err)
		}
		opts = append(opts, orchestrator.WithRescanner(libraryClient))
	}

	if stdoutIsTerminal() {
		opts = append(opts, orchestrator.WithProgress(newTerminalProgress()))
	}

	return orchestrator.New(cfg.Targets(), cfg.Paths.StagingDir, plan, copier, opts...), nil
}

func printBatchSummary(cmd *cobra.Command, batch *orchestrator.Batch) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)

	var complete, duplicate, failed, cancelled, notStarted int
	rows := make([][]string, 0, len(batch.Items))
	for _, item := range batch.Items {
		switch {
		case item.State == media.StateComplete && item.IsDuplicate:
			duplicate++
		case item.State == media.StateComplete:
			complete++
		case item.State == media.StateCancelled:
			cancelled++
		case item.State == media.StatePending:
			notStarted++
		default:
			failed++
		}
		rows = append(rows, []string{
			filepath.Base(item.SourcePath),
			itemLabel(item),
			string(item.State),
			item.StatusMessage,
		})
	}

	fmt.Fprintln(out, renderTable(
		[]string{"File", "Title", "State", "Status"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
	))
	fmt.Fprintf(out, "\nDestination: %s", batch.Destination.Name)
	if batch.FailedOver {
		fmt.Fprint(out, " (failover)")
	}
	fmt.Fprintf(out, "\nTransferred %d, skipped %d duplicate(s), %d failed, %d cancelled",
		complete, duplicate, failed, cancelled)
	if notStarted > 0 {
		fmt.Fprintf(out, ", %d not started", notStarted)
	}
	fmt.Fprintln(out)
}

func itemLabel(item *media.Item) string {
	label := item.Title
	if item.Year != "" {
		label = fmt.Sprintf("%s (%s)", label, item.Year)
	}
	if item.Season != "" && item.Episode != "" {
		label = fmt.Sprintf("%s S%02dE%02d", label, item.SeasonNumber(), item.EpisodeNumber())
	}
	return label
}

func presetLabels() string {
	presets := media.Presets()
	labels := make([]string, 0, len(presets))
	for _, preset := range presets {
		labels = append(labels, preset.Label)
	}
	return strings.Join(labels, ", ")
}
