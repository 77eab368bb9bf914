package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLLM()
	c.normalizeSources()
	c.normalizeReview()
	c.normalizeSnowball()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkspaceDir) == "" {
		c.Paths.WorkspaceDir = defaultWorkspaceDir
	}
	if c.Paths.WorkspaceDir, err = expandPath(c.Paths.WorkspaceDir); err != nil {
		return fmt.Errorf("paths.workspace_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLLM() {
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv("LITSIEVE_LLM_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("OPENROUTER_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("DEEPSEEK_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		}
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	c.LLM.Referer = strings.TrimSpace(c.LLM.Referer)
	if c.LLM.Referer == "" {
		c.LLM.Referer = defaultLLMReferer
	}
	c.LLM.Title = strings.TrimSpace(c.LLM.Title)
	if c.LLM.Title == "" {
		c.LLM.Title = defaultLLMTitle
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
}

func (c *Config) normalizeSources() {
	trimDefault := func(value *string, fallback string) {
		*value = strings.TrimRight(strings.TrimSpace(*value), "/")
		if *value == "" {
			*value = fallback
		}
	}
	trimDefault(&c.Sources.OpenAlexBaseURL, defaultOpenAlexBaseURL)
	trimDefault(&c.Sources.SemanticScholarBaseURL, defaultSemanticScholarBaseURL)
	trimDefault(&c.Sources.CrossrefBaseURL, defaultCrossrefBaseURL)
	trimDefault(&c.Sources.ArxivBaseURL, defaultArxivBaseURL)
	trimDefault(&c.Sources.DBLPBaseURL, defaultDBLPBaseURL)

	c.Sources.Mailto = strings.TrimSpace(c.Sources.Mailto)
	if c.Sources.Mailto == "" {
		if value, ok := os.LookupEnv("LITSIEVE_MAILTO"); ok {
			c.Sources.Mailto = strings.TrimSpace(value)
		}
	}
	c.Sources.UserAgent = strings.TrimSpace(c.Sources.UserAgent)
	if c.Sources.UserAgent == "" {
		c.Sources.UserAgent = defaultUserAgent
	}
	if c.Sources.PerSeedLimit <= 0 {
		c.Sources.PerSeedLimit = defaultPerSeedLimit
	}
	if c.Sources.CacheTTLDays <= 0 {
		c.Sources.CacheTTLDays = defaultCacheTTLDays
	}
}

func (c *Config) normalizeReview() {
	if c.Review.Workers <= 0 {
		c.Review.Workers = defaultReviewWorkers
	}
}

func (c *Config) normalizeSnowball() {
	c.Snowball.StopMode = strings.ToLower(strings.TrimSpace(c.Snowball.StopMode))
	if c.Snowball.StopMode == "" {
		c.Snowball.StopMode = defaultStopMode
	}
	if c.Snowball.MaxRounds <= 0 && c.Snowball.StopMode == "rounds" {
		c.Snowball.MaxRounds = defaultMaxRounds
	}
	c.Snowball.FromDate = strings.TrimSpace(c.Snowball.FromDate)
	c.Snowball.ToDate = strings.TrimSpace(c.Snowball.ToDate)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
