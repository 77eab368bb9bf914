package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"litsieve/internal/config"
	"litsieve/internal/logging"
)

type commandContext struct {
	configFlag    *string
	workspaceFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, workspaceFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		workspaceFlag: workspaceFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.workspaceFlag != nil && strings.TrimSpace(*c.workspaceFlag) != "" {
			expanded, err := config.ExpandPath(strings.TrimSpace(*c.workspaceFlag))
			if err != nil {
				c.configErr = err
				return
			}
			cfg.Paths.WorkspaceDir = expanded
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
	})
	return c.logger, c.loggerErr
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
