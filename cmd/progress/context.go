package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"progress/internal/adapter/filelock"
	"progress/internal/app"
	"progress/internal/config"
	"progress/internal/domain"
	"progress/internal/logging"
	"progress/internal/notifications"
)

// errReported is returned by commands whose failure was already printed.
var errReported = errors.New("command failed")

const annotationAction = "action"

type repositoryOpener func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.ProgressRepository, func() error, error)

type commandContext struct {
	configFlag    string
	envFileFlag   string
	logLevelFlag  string
	logFormatFlag string

	openRepository repositoryOpener
	newSender      func(config.Notifications) (notifications.Sender, error)
	now            func() time.Time

	config *config.Config
	logger *slog.Logger
}

func newCommandContext() *commandContext {
	return &commandContext{
		openRepository: openRepository,
		newSender:      notifications.NewPushover,
		now:            time.Now,
		logger:         logging.NewNop(),
	}
}

// load reads the env file and configuration, then builds the logger. A
// mutating command that cannot load its configuration still reports the
// failure through notifications when credentials are available.
func (c *commandContext) load(cmd *cobra.Command) error {
	if err := config.LoadEnvFile(c.envFileFlag); err != nil {
		return err
	}

	cfg, path, exists, err := config.Load(strings.TrimSpace(c.configFlag))
	if err != nil {
		if logErr := c.initLogger(cmd, "", ""); logErr != nil {
			return logErr
		}
		err = fmt.Errorf("load config: %w", err)
		if action := commandAction(cmd); action != "" {
			out := domain.Outcome{Kind: domain.OutcomeFailed, Action: action, Err: err}
			c.dispatcher(config.NotificationsFromEnv()).Dispatch(cmd.Context(), out)
		}
		return err
	}
	c.config = cfg

	if err := c.initLogger(cmd, cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return err
	}
	if exists {
		c.logger.Debug("configuration loaded", "path", path, "backend", cfg.Storage.Backend)
	} else {
		c.logger.Debug("no configuration file; using defaults and environment", "path", path)
	}
	return nil
}

func (c *commandContext) initLogger(cmd *cobra.Command, level, format string) error {
	if v := strings.TrimSpace(c.logLevelFlag); v != "" {
		level = v
	}
	if v := strings.TrimSpace(c.logFormatFlag); v != "" {
		format = v
	}
	logger, err := logging.New(logging.Options{Level: level, Format: format, Writer: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}
	c.logger = logger
	return nil
}

func (c *commandContext) dispatcher(cfg config.Notifications) *notifications.Dispatcher {
	sender, err := c.newSender(cfg)
	if err != nil {
		if errors.Is(err, notifications.ErrNotConfigured) {
			c.logger.Warn("pushover not configured; notifications disabled")
		} else {
			c.logger.Warn("pushover unavailable; notifications disabled", "error", err)
		}
		sender = notifications.Noop()
	}
	return notifications.NewDispatcher(sender, cfg, c.logger)
}

// withRepository opens the configured repository for the duration of fn.
func (c *commandContext) withRepository(ctx context.Context, fn func(domain.ProgressRepository) error) error {
	repo, closeRepo, err := c.openRepository(ctx, c.config, c.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeRepo(); err != nil {
			c.logger.Warn("close repository", "error", err)
		}
	}()
	return fn(repo)
}

func (c *commandContext) withService(ctx context.Context, fn func(*app.EntryService) error) error {
	return c.withRepository(ctx, func(repo domain.ProgressRepository) error {
		var locker app.Locker
		if c.config.Lock.Enabled {
			locker = filelock.New(c.config.Lock.Path, c.config.LockTimeout())
		}
		return fn(app.NewEntryService(repo, locker, c.logger))
	})
}

func commandAction(cmd *cobra.Command) domain.Action {
	for c := cmd; c != nil; c = c.Parent() {
		if action, ok := c.Annotations[annotationAction]; ok {
			return domain.Action(action)
		}
	}
	return ""
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
