package main

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"nomadtool/internal/orchestrator"
	"nomadtool/internal/planner"
	"nomadtool/internal/transfer"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <file> [file...]",
		Short: "Show how files would be classified and placed",
		Long: `Classify the given files and print the library path each one would land
at, without copying or transcoding anything. Useful for checking how a
filename parses before committing to a run.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			batch, err := orchestrator.NewBatch(args)
			if err != nil {
				return err
			}

			plan := planner.New(cfg.Transcoder.Container)
			primary := cfg.Targets()[0]

			rows := make([][]string, 0, len(batch.Items))
			for _, item := range batch.Items {
				duplicate := "no"
				if exists, err := plan.CheckDuplicate(item, primary.Path); err == nil && exists {
					duplicate = "yes"
				}
				rows = append(rows, []string{
					filepath.Base(item.SourcePath),
					string(item.Category),
					itemLabel(item),
					plan.RelativePath(item),
					humanize.IBytes(uint64(item.FileSize)),
					duplicate,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"File", "Category", "Title", "Library path", "Size", "Duplicate"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			fmt.Fprintf(out, "\nPrimary destination: %s (%s)\n", primary.Name, primary.Path)
			fmt.Fprintf(out, "Estimated transfer: %s\n",
				humanize.IBytes(uint64(transfer.EstimateBatchBytes(batch.Items))))
			return nil
		},
	}
}
