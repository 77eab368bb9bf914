package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"litsieve/internal/registry"
	"litsieve/internal/workspace"
)

func newRegistryCommand(ctx *commandContext) *cobra.Command {
	registryCmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect the paper registry",
	}

	registryCmd.AddCommand(newRegistryListCommand(ctx))
	registryCmd.AddCommand(newRegistryStatsCommand(ctx))

	return registryCmd
}

func (c *commandContext) loadRegistry() (*registry.Registry, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return registry.Load(workspace.RegistryPathIn(cfg.Paths.WorkspaceDir), logger), nil
}

func newRegistryListCommand(ctx *commandContext) *cobra.Command {
	var statusFlag string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registry entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := ctx.loadRegistry()
			if err != nil {
				return err
			}

			entries := reg.Entries()
			if statusFlag != "" {
				status, ok := registry.ParseStatus(statusFlag)
				if !ok {
					return fmt.Errorf("unknown status %q (known: %s)", statusFlag, knownStatuses())
				}
				entries = reg.EntriesWithStatus(status)
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					string(entry.Status),
					truncate(entry.Title, 70),
					firstIdentifier(entry),
					strconv.Itoa(entry.Round),
					entry.Source,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Status", "Title", "Identifier", "Round", "Source"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft}))
			return nil
		},
	}

	cmd.Flags().StringVarP(&statusFlag, "status", "s", "", "Filter by status")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Limit the number of rows")
	return cmd
}

func newRegistryStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize registry status counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := ctx.loadRegistry()
			if err != nil {
				return err
			}

			counts := reg.StatusCounts()
			rows := make([][]string, 0, len(counts))
			for _, status := range registry.AllStatuses() {
				if counts[status] == 0 {
					continue
				}
				rows = append(rows, []string{string(status), strconv.Itoa(counts[status])})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Status", "Count"},
				rows,
				[]columnAlignment{alignLeft, alignRight}))
			fmt.Fprintf(out, "Total entries: %d\n", reg.Len())
			if hash := reg.CriteriaHash(); hash != "" {
				fmt.Fprintf(out, "Criteria hash: %s\n", truncate(hash, 16))
			}
			return nil
		},
	}
}

func knownStatuses() string {
	statuses := registry.AllStatuses()
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func firstIdentifier(entry registry.Entry) string {
	switch {
	case entry.OpenAlexID != "":
		return entry.OpenAlexID
	case entry.DOI != "":
		return entry.DOI
	case entry.ArxivID != "":
		return "arXiv:" + entry.ArxivID
	default:
		return "-"
	}
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	if max <= 3 {
		return value[:max]
	}
	return value[:max-3] + "..."
}
