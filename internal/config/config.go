// Package config loads the HCL configuration file for lastcard.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/lastcard/internal/bot"
	"github.com/lox/lastcard/internal/deck"
	"github.com/lox/lastcard/internal/game"
)

// Default values
const (
	DefaultOpponents = 3
	DefaultThinkTime = time.Second
	DefaultLogLevel  = "info"
	DefaultLogFile   = "lastcard.log"
)

// Config is the complete, defaulted configuration
type Config struct {
	Match MatchConfig
	Bot   BotConfig
	Log   LogConfig
}

// MatchConfig controls how matches are set up
type MatchConfig struct {
	Opponents   int
	TargetScore int
	HandSize    int
	Seed        int64 // 0 picks a time-based seed
}

// BotConfig controls automated opponents
type BotConfig struct {
	ThinkTime            time.Duration
	DeclareProbability   float64
	ChallengeProbability float64
}

// LogConfig controls logging
type LogConfig struct {
	Level string
	File  string
}

// fileConfig mirrors the HCL layout. Every block and attribute is optional;
// pointers distinguish "absent" from an explicit zero.
type fileConfig struct {
	Match *matchBlock `hcl:"match,block"`
	Bot   *botBlock   `hcl:"bot,block"`
	Log   *logBlock   `hcl:"log,block"`
}

type matchBlock struct {
	Opponents   *int   `hcl:"opponents,optional"`
	TargetScore *int   `hcl:"target_score,optional"`
	HandSize    *int   `hcl:"hand_size,optional"`
	Seed        *int64 `hcl:"seed,optional"`
}

type botBlock struct {
	ThinkTime            *string  `hcl:"think_time,optional"`
	DeclareProbability   *float64 `hcl:"declare_probability,optional"`
	ChallengeProbability *float64 `hcl:"challenge_probability,optional"`
}

type logBlock struct {
	Level *string `hcl:"level,optional"`
	File  *string `hcl:"file,optional"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Match: MatchConfig{
			Opponents:   DefaultOpponents,
			TargetScore: game.DefaultTargetScore,
			HandSize:    deck.DefaultHandSize,
		},
		Bot: BotConfig{
			ThinkTime:            DefaultThinkTime,
			DeclareProbability:   bot.DefaultDeclareProbability,
			ChallengeProbability: bot.DefaultChallengeProbability,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
			File:  DefaultLogFile,
		},
	}
}

// Load reads filename. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source, filling defaults for anything not set
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &fc)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg := Default()
	if m := fc.Match; m != nil {
		setIf(&cfg.Match.Opponents, m.Opponents)
		setIf(&cfg.Match.TargetScore, m.TargetScore)
		setIf(&cfg.Match.HandSize, m.HandSize)
		setIf(&cfg.Match.Seed, m.Seed)
	}
	if b := fc.Bot; b != nil {
		if b.ThinkTime != nil {
			d, err := time.ParseDuration(*b.ThinkTime)
			if err != nil {
				return nil, fmt.Errorf("bot.think_time: %w", err)
			}
			cfg.Bot.ThinkTime = d
		}
		setIf(&cfg.Bot.DeclareProbability, b.DeclareProbability)
		setIf(&cfg.Bot.ChallengeProbability, b.ChallengeProbability)
	}
	if l := fc.Log; l != nil {
		setIf(&cfg.Log.Level, l.Level)
		setIf(&cfg.Log.File, l.File)
	}
	return cfg, nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Validate checks every value is in range
func (c *Config) Validate() error {
	var errs []error
	if c.Match.Opponents < 1 || c.Match.Opponents > game.MaxOpponents {
		errs = append(errs, fmt.Errorf("match.opponents must be between 1 and %d, got %d", game.MaxOpponents, c.Match.Opponents))
	}
	if c.Match.TargetScore < 1 {
		errs = append(errs, fmt.Errorf("match.target_score must be positive, got %d", c.Match.TargetScore))
	}
	if c.Match.HandSize < 1 {
		errs = append(errs, fmt.Errorf("match.hand_size must be positive, got %d", c.Match.HandSize))
	} else if dealt := (c.Match.Opponents + 1) * c.Match.HandSize; dealt >= deck.Size {
		errs = append(errs, fmt.Errorf("match.hand_size %d deals %d cards, deck has %d", c.Match.HandSize, dealt, deck.Size))
	}
	if c.Bot.ThinkTime < 0 {
		errs = append(errs, fmt.Errorf("bot.think_time must not be negative, got %s", c.Bot.ThinkTime))
	}
	if p := c.Bot.DeclareProbability; p < 0 || p > 1 {
		errs = append(errs, fmt.Errorf("bot.declare_probability must be within [0, 1], got %g", p))
	}
	if p := c.Bot.ChallengeProbability; p < 0 || p > 1 {
		errs = append(errs, fmt.Errorf("bot.challenge_probability must be within [0, 1], got %g", p))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}

// LogLevel parses the configured log level
func (c *Config) LogLevel() (log.Level, error) {
	return log.ParseLevel(c.Log.Level)
}
