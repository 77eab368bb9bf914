package config

const (
	defaultWorkspaceDir = "~/.local/share/litsieve/workspace"
	defaultLogDir       = "~/.local/share/litsieve/logs"

	defaultLLMBaseURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel          = "deepseek/deepseek-chat"
	defaultLLMReferer        = "https://github.com/litsieve/litsieve"
	defaultLLMTitle          = "litsieve screening"
	defaultLLMTimeoutSeconds = 120

	defaultOpenAlexBaseURL        = "https://api.openalex.org"
	defaultSemanticScholarBaseURL = "https://api.semanticscholar.org/graph/v1"
	defaultCrossrefBaseURL        = "https://api.crossref.org"
	defaultArxivBaseURL           = "https://export.arxiv.org/api/query"
	defaultDBLPBaseURL            = "https://dblp.org/search/publ/api"
	defaultUserAgent              = "litsieve (https://github.com/litsieve/litsieve)"
	defaultPerSeedLimit           = 200
	defaultCacheTTLDays           = 14

	defaultReviewWorkers = 4

	defaultStopMode  = "rounds"
	defaultMaxRounds = 3

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkspaceDir: defaultWorkspaceDir,
			LogDir:       defaultLogDir,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Sources: Sources{
			OpenAlexBaseURL:        defaultOpenAlexBaseURL,
			SemanticScholarBaseURL: defaultSemanticScholarBaseURL,
			CrossrefBaseURL:        defaultCrossrefBaseURL,
			ArxivBaseURL:           defaultArxivBaseURL,
			DBLPBaseURL:            defaultDBLPBaseURL,
			UserAgent:              defaultUserAgent,
			PerSeedLimit:           defaultPerSeedLimit,
			CacheTTLDays:           defaultCacheTTLDays,
		},
		Review: Review{
			Workers: defaultReviewWorkers,
		},
		Snowball: Snowball{
			StopMode:  defaultStopMode,
			MaxRounds: defaultMaxRounds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
