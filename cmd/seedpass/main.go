// Command seedpass prints the password derived from a seed and a JSON policy
// file.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/urfave/cli/v2"

	seedpassplugin "github.com/seedpass-vault-plugin"
)

type config struct {
	Seed       string
	PolicyFile string
	Count      int
	LogLevel   string
}

func newApp(stdout, stderr io.Writer) *cli.App {
	cfg := &config{}

	return &cli.App{
		Name:      "seedpass",
		Usage:     "derive reproducible passwords from a seed",
		UsageText: "seedpass --seed SEED --config POLICY.json",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "seed",
				Aliases:     []string{"s"},
				Usage:       "seed used for the pseudo random number generator",
				EnvVars:     []string{"SEEDPASS_SEED"},
				Destination: &cfg.Seed,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to the JSON policy file",
				EnvVars:     []string{"SEEDPASS_CONFIG"},
				Destination: &cfg.PolicyFile,
				Required:    true,
			},
			&cli.IntFlag{
				Name:        "count",
				Aliases:     []string{"n"},
				Usage:       "number of consecutive generations to print",
				EnvVars:     []string{"SEEDPASS_COUNT"},
				Destination: &cfg.Count,
				Value:       1,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (trace, debug, info, warn, error)",
				EnvVars:     []string{"SEEDPASS_LOG_LEVEL"},
				Destination: &cfg.LogLevel,
				Value:       "warn",
			},
		},
		Action: func(c *cli.Context) error {
			logger := hclog.New(&hclog.LoggerOptions{
				Name:   "seedpass",
				Level:  hclog.LevelFromString(cfg.LogLevel),
				Output: stderr,
			})
			return run(cfg, stdout, logger)
		},
	}
}

func run(cfg *config, stdout io.Writer, logger hclog.Logger) error {
	if cfg.Count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", cfg.Count)
	}

	f, err := os.Open(cfg.PolicyFile)
	if err != nil {
		return fmt.Errorf("opening policy file: %w", err)
	}
	defer f.Close()

	p, err := seedpassplugin.ReadPolicy(f)
	if err != nil {
		return err
	}
	logger.Debug("loaded policy", "path", cfg.PolicyFile, "length", p.PasswordLength, "obligatory_sets", len(p.ObligatorySets))

	for gen := 0; gen < cfg.Count; gen++ {
		pw, err := seedpassplugin.GeneratePassword(seedpassplugin.DerivationSeed(cfg.Seed, gen), p)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, pw)
	}
	return nil
}

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		hclog.New(&hclog.LoggerOptions{Name: "seedpass", Output: os.Stderr}).Error("generation failed", "error", err)
		os.Exit(1)
	}
}
