package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Play a match against bots in the terminal"`
	Simulate SimulateCmd      `cmd:"" help:"Play bot-only matches and report statistics"`
	Rules    RulesCmd         `cmd:"" help:"Print the deck composition and scoring"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("lastcard"),
		kong.Description("A last card game against computer opponents"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
