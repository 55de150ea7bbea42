package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/lox/lastcard/internal/autoplay"
	"github.com/lox/lastcard/internal/config"
	"github.com/lox/lastcard/internal/fileutil"
	"github.com/lox/lastcard/internal/game"
	"github.com/lox/lastcard/internal/tui"
)

type PlayCmd struct {
	Config    string `short:"c" default:"lastcard.hcl" help:"Path to HCL configuration file"`
	Opponents int    `short:"o" help:"Number of bot opponents (overrides config)"`
	Target    int    `short:"t" help:"Score that wins the match (overrides config)"`
	Seed      int64  `help:"RNG seed, 0 for random (overrides config)"`
	Resume    string `type:"existingfile" help:"Resume a match saved with the s key"`
	Save      string `default:"lastcard-save.json" help:"Where the s key saves the match"`
	LogLevel  string `short:"l" help:"Log level (overrides config)"`
	LogFile   string `help:"Log file path (overrides config)"`
}

func (c *PlayCmd) Run() error {
	cfg, err := loadConfig(c.Config, c.Opponents, c.Target, c.Seed, c.LogLevel)
	if err != nil {
		return err
	}
	if c.LogFile != "" {
		cfg.Log.File = c.LogFile
	}

	// the TUI owns the terminal, so logs go to a file
	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	logger, err := newLogger(logFile, cfg)
	if err != nil {
		return err
	}

	engine, err := c.engine(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("Starting match",
		"match", engine.ID(),
		"seed", engine.Seed(),
		"opponents", len(engine.Round().Players)-1,
		"resumed", c.Resume != "")

	driver := autoplay.New(engine,
		autoplay.WithDelay(cfg.Bot.ThinkTime),
		autoplay.WithProbabilities(cfg.Bot.DeclareProbability, cfg.Bot.ChallengeProbability),
		autoplay.WithLogger(logger))

	model := tui.NewModel(engine, driver, logger, c.Save)
	defer model.Close()

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	match := engine.Match()
	logger.Info("Match closed", "match", engine.ID(), "totals", match.TotalScores)
	return nil
}

// engine resumes the saved match if one was given, otherwise deals a new one
func (c *PlayCmd) engine(cfg *config.Config, logger *log.Logger) (*game.Engine, error) {
	if c.Resume == "" {
		return game.StartMatch(cfg.Match.Opponents,
			game.WithSeed(cfg.Match.Seed),
			game.WithTargetScore(cfg.Match.TargetScore),
			game.WithHandSize(cfg.Match.HandSize),
			game.WithLogger(logger))
	}

	var state game.State
	if err := fileutil.ReadJSON(c.Resume, &state); err != nil {
		return nil, fmt.Errorf("failed to load saved match: %w", err)
	}
	engine, err := game.Restore(state, game.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to restore %s: %w", c.Resume, err)
	}
	return engine, nil
}

// loadConfig reads the config file and applies command line overrides
func loadConfig(path string, opponents, target int, seed int64, level string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if opponents != 0 {
		cfg.Match.Opponents = opponents
	}
	if target != 0 {
		cfg.Match.TargetScore = target
	}
	if seed != 0 {
		cfg.Match.Seed = seed
	}
	if level != "" {
		cfg.Log.Level = level
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg *config.Config) (*log.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
	}), nil
}
