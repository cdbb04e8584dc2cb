package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command
type Globals struct {
	Verbose bool `short:"V" help:"Verbose logging"`
}

// Logger returns a stderr logger at debug level when verbose, warn otherwise
func (g *Globals) Logger() *log.Logger {
	level := log.WarnLevel
	if g.Verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{Level: level, Prefix: "montecarlo"})
}

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Roll    RollCmd          `cmd:"" help:"Roll a single weighted die"`
	Play    PlayCmd          `cmd:"" help:"Play a game of identical dice and analyze it"`
	Run     RunCmd           `cmd:"" help:"Run the experiments in an HCL file"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("montecarlo"),
		kong.Description("Weighted dice, games and Monte Carlo analysis"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
