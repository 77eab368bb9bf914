package main

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"litsieve/internal/criteria"
	"litsieve/internal/logging"
	"litsieve/internal/registry"
	"litsieve/internal/review"
	"litsieve/internal/services/llm"
	"litsieve/internal/snowball"
	"litsieve/internal/sources"
	"litsieve/internal/workspace"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var rounds int
	var maxCandidates int
	var maxIncluded int
	var rebuildRegistry bool
	var fromDate string
	var toDate string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute snowball review rounds against the workspace",
		Long: `Run the snowball loop: expand the included papers' citation
neighborhoods, screen new candidates against the criteria document, and fold
verdicts into the registry until a stop condition holds.

The workspace must contain criteria.yaml and base_review.json.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			if rounds > 0 {
				cfg.Snowball.StopMode = "rounds"
				cfg.Snowball.MaxRounds = rounds
			}
			if maxCandidates > 0 || maxIncluded > 0 {
				cfg.Snowball.StopMode = "threshold"
				cfg.Snowball.MaxRawCandidates = maxCandidates
				cfg.Snowball.MaxIncluded = maxIncluded
			}
			if fromDate != "" {
				cfg.Snowball.FromDate = fromDate
			}
			if toDate != "" {
				cfg.Snowball.ToDate = toDate
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ws, err := workspace.Open(cfg.Paths.WorkspaceDir, logger)
			if err != nil {
				return err
			}
			defer ws.Close()

			criteriaDoc, err := criteria.Load(ws.CriteriaPath())
			if err != nil {
				return fmt.Errorf("load criteria: %w", err)
			}
			criteriaHash := criteriaDoc.Hash()

			if rebuildRegistry {
				if err := ws.RemoveRegistry(); err != nil {
					return err
				}
				logger.Info("registry wiped for rebuild")
			}
			reg := registry.Load(ws.RegistryPath(), logger)

			cache, err := sources.OpenHarvestCache(
				ws.HarvestDBPath(),
				time.Duration(cfg.Sources.CacheTTLDays)*24*time.Hour,
				logger)
			if err != nil {
				logger.Warn("harvest cache unavailable, running without it",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "delete harvest.db and rerun to rebuild the cache"))
			} else {
				defer cache.Close()
				if removed, err := cache.Prune(cmd.Context()); err == nil && removed > 0 {
					logger.Debug("pruned expired harvest cache entries", logging.Int64("removed", removed))
				}
			}

			clients := sources.NewClients(sources.Options{
				UserAgent:              cfg.Sources.UserAgent,
				Mailto:                 cfg.Sources.Mailto,
				OpenAlexBaseURL:        cfg.Sources.OpenAlexBaseURL,
				SemanticScholarBaseURL: cfg.Sources.SemanticScholarBaseURL,
				CrossrefBaseURL:        cfg.Sources.CrossrefBaseURL,
				ArxivBaseURL:           cfg.Sources.ArxivBaseURL,
				DBLPBaseURL:            cfg.Sources.DBLPBaseURL,
				Logger:                 logger,
			})
			expander := sources.NewCitationExpander(
				clients.OpenAlex, clients.SemanticScholar, cache, logger,
				sources.WithPerSeedLimit(cfg.Sources.PerSeedLimit))
			enricher := sources.NewMetadataEnricher(clients, cache, logger)

			client := llm.NewClient(llm.Config{
				APIKey:         cfg.LLM.APIKey,
				BaseURL:        cfg.LLM.BaseURL,
				Model:          cfg.LLM.Model,
				Referer:        cfg.LLM.Referer,
				Title:          cfg.LLM.Title,
				TimeoutSeconds: cfg.LLM.TimeoutSeconds,
			})
			screener := review.NewScreener(client, criteriaDoc, logger,
				review.WithWorkers(cfg.Review.Workers))

			orch := snowball.New(reg, expander, screener, ws, criteriaHash, logger,
				snowball.WithStopPolicy(stopPolicyFromConfig(cfg.Snowball.StopMode, cfg.Snowball.MaxRounds, cfg.Snowball.MaxRawCandidates, cfg.Snowball.MaxIncluded)),
				snowball.WithDateWindow(snowball.DateWindow{From: cfg.Snowball.FromDate, To: cfg.Snowball.ToDate}),
				snowball.WithEnricher(enricher))

			summary, err := orch.Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderRunSummary(summary))
			fmt.Fprintf(out, "Stop reason: %s\n", summary.StopReason)
			fmt.Fprintf(out, "Included papers: %d\n", summary.Included)
			return nil
		},
	}

	cmd.Flags().IntVar(&rounds, "rounds", 0, "Run a fixed number of rounds (overrides snowball config)")
	cmd.Flags().IntVar(&maxCandidates, "max-candidates", 0, "Stop once this many raw candidates were expanded")
	cmd.Flags().IntVar(&maxIncluded, "max-included", 0, "Stop once this many papers are included")
	cmd.Flags().BoolVar(&rebuildRegistry, "rebuild-registry", false, "Wipe the registry before running")
	cmd.Flags().StringVar(&fromDate, "from", "", "Earliest publication date to consider (YYYY[-MM[-DD]])")
	cmd.Flags().StringVar(&toDate, "to", "", "Latest publication date to consider (YYYY[-MM[-DD]])")
	return cmd
}

func stopPolicyFromConfig(mode string, maxRounds, maxRaw, maxIncluded int) snowball.StopPolicy {
	if mode == "threshold" {
		return snowball.StopPolicy{
			Mode:             snowball.StopModeThreshold,
			MaxRawCandidates: maxRaw,
			MaxIncluded:      maxIncluded,
		}
	}
	return snowball.StopPolicy{Mode: snowball.StopModeRounds, MaxRounds: maxRounds}
}

func renderRunSummary(summary snowball.Summary) string {
	headers := []string{"Round", "Seeds", "Raw", "Filtered", "Removed", "Reviewed", "Included", "Outcomes"}
	rows := make([][]string, 0, len(summary.Rounds))
	for _, meta := range summary.Rounds {
		rows = append(rows, []string{
			strconv.Itoa(meta.Round),
			strconv.Itoa(meta.SeedCount),
			strconv.Itoa(meta.RawCount),
			strconv.Itoa(meta.FilteredCount),
			strconv.Itoa(meta.RemovedTotal()),
			strconv.Itoa(meta.ForReview),
			strconv.Itoa(meta.CumulativeIncluded),
			renderOutcomes(meta.Outcomes),
		})
	}
	aligns := []columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft}
	return renderTable(headers, rows, aligns)
}

func renderOutcomes(outcomes map[string]int) string {
	if len(outcomes) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(outcomes))
	for key := range outcomes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	result := ""
	for i, key := range keys {
		if i > 0 {
			result += " "
		}
		result += fmt.Sprintf("%s:%d", key, outcomes[key])
	}
	return result
}
