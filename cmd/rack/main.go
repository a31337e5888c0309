package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dudk/rack/log"
)

// command is a named subcommand with its own flag set.
type command interface {
	Name() string
	Help() string
	Register(*flag.FlagSet)
	Run() error
}

var logger = log.GetLogger()

var commands = []command{
	&renderCommand{},
	&playCommand{},
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		usage()
		return 1
	}
	cmd := lookup(args[0])
	if cmd == nil {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		usage()
		return 1
	}
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.Register(fs)
	if err := fs.Parse(args[1:]); err != nil {
		return 1
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", cmd.Name(), err)
		return 1
	}
	return 0
}

func lookup(name string) command {
	for _, cmd := range commands {
		if cmd.Name() == name {
			return cmd
		}
	}
	return nil
}

func usage() {
	fmt.Println("rack drives a modular synth patch from the command line")
	fmt.Println()
	fmt.Println("usage: rack <command> [flags]")
	fmt.Println()
	for _, cmd := range commands {
		fmt.Printf("  %-8s %s\n", cmd.Name(), cmd.Help())
	}
}
