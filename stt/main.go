package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/taxlot/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	// Shell completion for subcommand names and the global flags.
	// `COMP_INSTALL=1 stt` installs it.
	completer := &complete.Command{
		Sub: map[string]*complete.Command{
			"buy": {}, "sell": {}, "split": {}, "liquidate": {}, "washgroup": {},
			"report": {}, "holding": {}, "tx": {},
			"fmt": {}, "import": {},
			"topic": {}, "assist": {},
		},
		Flags: map[string]complete.Predictor{
			"ledger-file": predict.Files("*.jsonl"),
		},
	}
	completer.Complete(path.Base(os.Args[0]))

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
