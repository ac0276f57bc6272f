// colorquiz is a color-identification quiz: guess which hex code matches a
// swatch, or which swatch matches a hex code.
//
// Usage:
//
//	colorquiz serve              - Start the HTTP API
//	colorquiz play               - Play in the terminal
//	colorquiz sample             - Print generated questions as JSON or YAML
//	colorquiz score <attempt>    - Score a correct answer on the given attempt
//
// Global flags:
//
//	--config <path>      - Config file (default: search ~/.colorquiz, ./configs, built-in)
//	--log-level <level>  - Override the configured log level
//	--seed <value>       - RNG seed for reproducible questions (0 = time based)
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/colorquiz/internal/config"
	"github.com/robalobadob/colorquiz/internal/game"
)

// app carries what every subcommand needs once the root command has run.
type app struct {
	configPath string
	logLevel   string
	seed       int64
	cfg        config.Config
}

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "colorquiz",
		Short: "Color quiz - match hex codes and swatches",
		Long: `colorquiz generates four well-separated colors per question and asks
you to match a swatch to its hex code, or a hex code to its swatch.

Examples:
  colorquiz serve
  colorquiz play --rounds 10
  colorquiz sample -n 3 --format yaml
  colorquiz score 2 --hint`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	root.PersistentFlags().Int64Var(&a.seed, "seed", 0, "RNG seed (0 = random based on time)")

	root.AddCommand(newServeCmd(a))
	root.AddCommand(newPlayCmd(a))
	root.AddCommand(newSampleCmd(a))
	root.AddCommand(newScoreCmd(a))
	return root
}

// setup loads configuration and configures the global logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	lvl, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)
	if cfg.Log.Pretty || cmd.Name() == "play" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen})
	}
	log.Debug().Str("source", cfg.Source).Msg("config loaded")
	a.cfg = cfg
	return nil
}

// generatorOptions returns the generator settings from the config.
func (a *app) generatorOptions() []game.GeneratorOption {
	return []game.GeneratorOption{
		game.WithMinDistance(a.cfg.Game.MinDistance),
		game.WithMaxAttempts(a.cfg.Game.MaxAttempts),
		game.WithLogger(log.Logger),
	}
}

// newGenerator builds the shared generator, seeded from --seed when set.
func (a *app) newGenerator() (*game.Generator, error) {
	var rng *rand.Rand
	if a.seed != 0 {
		rng = rand.New(rand.NewSource(a.seed))
	}
	return game.NewGenerator(rng, a.generatorOptions()...)
}
