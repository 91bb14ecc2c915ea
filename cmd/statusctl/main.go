package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
)

// CLI is the statusctl command tree.
type CLI struct {
	Normalize NormalizeCmd `cmd:"" help:"Normalize raw provider statuses (arguments, or one per stdin line)"`
	Stages    StagesCmd    `cmd:"" help:"Print the canonical stage table"`
	Unmapped  UnmappedCmd  `cmd:"" help:"Print recorded statuses that fell through to the default stage"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(
		&cli,
		kong.Name("statusctl"),
		kong.Description("statusctl - Inspect shipment status normalization"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.BindTo(os.Stdout, (*io.Writer)(nil)),
		kong.BindTo(os.Stdin, (*io.Reader)(nil)),
	)
	kctx.FatalIfErrorf(kctx.Run())
}
