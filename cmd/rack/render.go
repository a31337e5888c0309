package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dudk/rack/engine"
	"github.com/dudk/rack/patch"
)

type renderCommand struct {
	patch    string
	out      string
	duration float64
	rate     float64
	depth    int
	channels int
	block    int
}

// Implement main.command interface.
func (cmd *renderCommand) Name() string {
	return "render"
}

func (cmd *renderCommand) Help() string {
	return "Render a patch to a wav file offline"
}

func (cmd *renderCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&cmd.patch, "patch", "", "patch file to render (required)")
	fs.StringVar(&cmd.out, "out", "", "output wav file (required)")
	fs.Float64Var(&cmd.duration, "duration", 5, "seconds of audio to render")
	fs.Float64Var(&cmd.rate, "rate", 44100, "sample rate")
	fs.IntVar(&cmd.depth, "depth", 16, "output bit depth")
	fs.IntVar(&cmd.channels, "channels", 1, "output channels")
	fs.IntVar(&cmd.block, "block", 512, "block size in frames")
}

func (cmd *renderCommand) Run() error {
	if err := cmd.validate(); err != nil {
		return err
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

	e := engine.New(
		engine.WithSampleRate(float32(cmd.rate)),
		engine.WithLogger(logger),
	)
	defer e.Close()
	var loaded modules
	factory := newFactory(e, cmd.out, cmd.depth, cmd.channels, cmd.block, &loaded)
	if err := e.FromPatch(doc, factory); err != nil {
		return err
	}
	if loaded.recorder == nil {
		return fmt.Errorf("patch has no wav.Recorder module")
	}

	frames := int64(cmd.duration * cmd.rate)
	for rendered := int64(0); rendered < frames; rendered += int64(cmd.block) {
		e.StepBlock(cmd.block)
	}
	logger.Infof("rendered %v blocks, meter avg %.3f max %.3f", e.Block(), e.MeterAverage(), e.MeterMax())
	return loaded.recorder.Close()
}

func (cmd *renderCommand) validate() error {
	message := ""
	if cmd.patch == "" {
		message += "Missing -patch required flag\n"
	}
	if cmd.out == "" {
		message += "Missing -out required flag\n"
	}
	if message != "" {
		return fmt.Errorf("%s", message)
	}
	return nil
}
