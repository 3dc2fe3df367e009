package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/importchain/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			os.Exit(130) // Standard shell convention for SIGINT
		case errors.Is(err, cli.ErrContractsBroken):
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging, including a trace of each search")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		c.InstallHooks()
		return nil
	}

	return root.ExecuteContext(ctx)
}
