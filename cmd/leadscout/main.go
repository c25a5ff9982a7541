package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

func main() {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("leadscout"),
		kong.Description("Find motivated-seller real estate leads."),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	runCtx, err := newContext(cli)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := kctx.Run(runCtx); err != nil {
		runCtx.Errorf("%v", err)
		os.Exit(1)
	}
}
