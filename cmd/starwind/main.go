package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/starwind-ui/starwind/internal/cli"
	"github.com/starwind-ui/starwind/internal/tui"
	"github.com/starwind-ui/starwind/pkg/version"
)

func run(ctx context.Context, args []string) error {
	root := cli.NewRootCmdWithArgs(version.GetVersion(), args)
	return root.ExecuteContext(ctx)
}

// exitCode maps a command error to the process exit status. Backing out of
// a prompt is not a failure.
func exitCode(err error) int {
	if err == nil || cli.IsCancelled(err) {
		return 0
	}
	return 1
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:])
	stop()

	switch {
	case err == nil:
	case cli.IsCancelled(err):
		fmt.Fprintln(os.Stderr, tui.Warn("Operation cancelled"))
	default:
		fmt.Fprintln(os.Stderr, tui.Error("Error: "+err.Error()))
	}
	os.Exit(exitCode(err))
}
