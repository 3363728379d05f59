package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind         string
	port         int
	wordsFile    string
	timeLimit    int
	groupSize    int
	wordsPerGame int
	maxClients   int
	verbose      bool
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.timeLimit < 1 {
		return fmt.Errorf("invalid time limit (must be at least 1 second): %d", c.timeLimit)
	}
	if c.groupSize < 1 {
		return fmt.Errorf("invalid group size (must be at least 1): %d", c.groupSize)
	}
	if c.wordsPerGame < 1 {
		return fmt.Errorf("invalid words per game (must be at least 1): %d", c.wordsPerGame)
	}
	if c.maxClients < 1 {
		return fmt.Errorf("invalid client limit (must be at least 1): %d", c.maxClients)
	}
	return nil
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("TYPEFAST")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "typefast",
		Short:         "A multiplayer typing-speed game served over a plain TCP text protocol.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: TYPEFAST_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 12345, "port to listen on (env: TYPEFAST_PORT)")
	fs.StringVarP(&cfg.wordsFile, "words", "w", "words.txt", "path to newline-delimited word list (env: TYPEFAST_WORDS)")
	fs.IntVar(&cfg.timeLimit, "time-limit", 30, "seconds allowed per word (env: TYPEFAST_TIME_LIMIT)")
	fs.IntVar(&cfg.groupSize, "group-size", 1, "players matched into each game (env: TYPEFAST_GROUP_SIZE)")
	fs.IntVar(&cfg.wordsPerGame, "words-per-game", 5, "words issued per game (env: TYPEFAST_WORDS_PER_GAME)")
	fs.IntVar(&cfg.maxClients, "max-clients", 10, "maximum concurrent client handlers (env: TYPEFAST_MAX_CLIENTS)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: TYPEFAST_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("typefast v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
