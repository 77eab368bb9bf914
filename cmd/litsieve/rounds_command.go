package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"litsieve/internal/snowball"
	"litsieve/internal/workspace"
)

func newRoundsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rounds",
		Short: "List executed snowball rounds",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			rounds, err := workspace.RoundsIn(cfg.Paths.WorkspaceDir)
			if err != nil {
				return err
			}
			if len(rounds) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No rounds executed yet.")
				return nil
			}

			rows := make([][]string, 0, len(rounds))
			for _, n := range rounds {
				var meta snowball.RoundMetadata
				if err := workspace.ReadJSON(workspace.RoundMetadataPathIn(cfg.Paths.WorkspaceDir, n), &meta); err != nil {
					return fmt.Errorf("read round %d metadata: %w", n, err)
				}
				rows = append(rows, []string{
					strconv.Itoa(meta.Round),
					strconv.Itoa(meta.SeedCount),
					strconv.Itoa(meta.RawCount),
					strconv.Itoa(meta.FilteredCount),
					strconv.Itoa(meta.RemovedTotal()),
					strconv.Itoa(meta.ForReview),
					strconv.Itoa(meta.CumulativeIncluded),
					roundNote(meta),
				})
			}

			fmt.Fprint(cmd.OutOrStdout(), renderTable(
				[]string{"Round", "Seeds", "Raw", "Filtered", "Deduped", "Reviewed", "Included", "Note"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft}))
			return nil
		},
	}
}

func roundNote(meta snowball.RoundMetadata) string {
	switch {
	case meta.StopReason != "":
		return meta.StopReason
	case meta.ExpandError != "":
		return "expansion failed: " + truncate(meta.ExpandError, 40)
	default:
		return ""
	}
}
