package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"typefast/internal/typefast/game"
	"typefast/internal/typefast/handlers"
)

const releaseVersion = "0.1.0"

func main() {
	cfg := &Config{}
	cobra.CheckErr(newCmd(cfg).Execute())
}

func run(ctx context.Context, cfg *Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	words := game.LoadWords(cfg.wordsFile)

	srv := handlers.NewServer(handlers.ServerConfig{
		ListenAddr:   net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port)),
		Words:        words,
		GroupSize:    cfg.groupSize,
		WordsPerGame: cfg.wordsPerGame,
		TimeLimit:    cfg.timeLimit,
		MaxClients:   cfg.maxClients,
		Verbose:      cfg.verbose,
	})

	return srv.ListenAndServe(ctx)
}
