package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/dudk/rack/engine"
	"github.com/dudk/rack/patch"
)

type playCommand struct {
	patch    string
	channels int
	block    int
}

// Implement main.command interface.
func (cmd *playCommand) Name() string {
	return "play"
}

func (cmd *playCommand) Help() string {
	return "Play a patch through the default audio device"
}

func (cmd *playCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&cmd.patch, "patch", "", "patch file to play (required)")
	fs.IntVar(&cmd.channels, "channels", 2, "output channels")
	fs.IntVar(&cmd.block, "block", 512, "block size in frames")
}

func (cmd *playCommand) Run() error {
	if cmd.patch == "" {
		return fmt.Errorf("Missing -patch required flag")
	}
	f, err := os.Open(cmd.patch)
	if err != nil {
		return err
	}
	defer f.Close()
	doc, err := patch.Parse(f)
	if err != nil {
		return err
	}

	e := engine.New(engine.WithLogger(logger))
	defer e.Close()
	var loaded modules
	factory := newFactory(e, "", 0, cmd.channels, cmd.block, &loaded)
	if err := e.FromPatch(doc, factory); err != nil {
		return err
	}
	if loaded.driver == nil {
		return fmt.Errorf("patch has no portaudio.Driver module")
	}
	if err := loaded.driver.Start(); err != nil {
		return err
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	logger.Info("playing, interrupt to stop")
	<-interrupt
	return loaded.driver.Stop()
}
