package config

import (
	"errors"
	"fmt"
	"time"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateSources(); err != nil {
		return err
	}
	if err := c.validateReview(); err != nil {
		return err
	}
	if err := c.validateSnowball(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLLM() error {
	if c.LLM.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/litsieve/config.toml"
		}
		return fmt.Errorf("llm.api_key is required. Set OPENROUTER_API_KEY env var or edit %s (create with 'litsieve config init')", defaultPath)
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return errors.New("llm.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateSources() error {
	if err := ensurePositiveMap(map[string]int{
		"sources.per_seed_limit": c.Sources.PerSeedLimit,
		"sources.cache_ttl_days": c.Sources.CacheTTLDays,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateReview() error {
	if c.Review.Workers <= 0 {
		return errors.New("review.workers must be positive")
	}
	return nil
}

func (c *Config) validateSnowball() error {
	switch c.Snowball.StopMode {
	case "rounds":
		if c.Snowball.MaxRounds <= 0 {
			return errors.New("snowball.max_rounds must be positive in rounds mode")
		}
	case "threshold":
		if c.Snowball.MaxRawCandidates <= 0 && c.Snowball.MaxIncluded <= 0 {
			return errors.New("snowball.max_raw_candidates or snowball.max_included must be set in threshold mode")
		}
	default:
		return fmt.Errorf("snowball.stop_mode must be %q or %q", "rounds", "threshold")
	}
	for field, value := range map[string]string{
		"snowball.from_date": c.Snowball.FromDate,
		"snowball.to_date":   c.Snowball.ToDate,
	} {
		if value == "" {
			continue
		}
		if err := validateISODate(value); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
	}
	if c.Snowball.FromDate != "" && c.Snowball.ToDate != "" && c.Snowball.FromDate > c.Snowball.ToDate {
		return errors.New("snowball.from_date must not be after snowball.to_date")
	}
	return nil
}

// validateISODate accepts YYYY, YYYY-MM, and YYYY-MM-DD forms.
func validateISODate(value string) error {
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if _, err := time.Parse(layout, value); err == nil {
			return nil
		}
	}
	return fmt.Errorf("%q is not an ISO date (YYYY, YYYY-MM, or YYYY-MM-DD)", value)
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
