// Command hypermatch loads CUE hypergraph documents and runs pattern
// matching queries against them.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/roach88/hypermatch/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
