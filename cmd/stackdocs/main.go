package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/fullstackmenu/stackdocs/cmd/stackdocs/commands"
	derrors "github.com/fullstackmenu/stackdocs/internal/errors"
	"github.com/fullstackmenu/stackdocs/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("stackdocs"),
		kong.Description("Serve and build the Full Stack Menu documentation site."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	global := &commands.Global{Logger: slog.Default()}
	if err := parser.Run(global, cli); err != nil {
		derrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
