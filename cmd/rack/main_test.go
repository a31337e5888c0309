package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gowav "github.com/go-audio/wav"
)

func TestLookup(t *testing.T) {
	assert.Equal(t, "render", lookup("render").Name())
	assert.Equal(t, "play", lookup("play").Name())
	assert.Nil(t, lookup("transcode"))
}

func TestRun(t *testing.T) {
	assert.Equal(t, 1, run(nil))
	assert.Equal(t, 1, run([]string{"unknown"}))
	// missing required flags fail the command
	assert.Equal(t, 1, run([]string{"render"}))
}

func TestRegister(t *testing.T) {
	for _, cmd := range commands {
		assert.NotEmpty(t, cmd.Name())
		assert.NotEmpty(t, cmd.Help())
		fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.Register(fs)
	}
}

const testPatch = `{
  "modules": [
    {"id": 0, "type": "osc.Osc", "params": [{"id": 0, "value": 441}]},
    {"id": 1, "type": "gain.Gain", "params": [{"id": 0, "value": 0.5}]},
    {"id": 2, "type": "wav.Recorder"}
  ],
  "cables": [
    {"id": 0, "outputModuleId": 0, "outputId": 0, "inputModuleId": 1, "inputId": 0},
    {"id": 1, "outputModuleId": 1, "outputId": 0, "inputModuleId": 2, "inputId": 0}
  ]
}`

func TestRender(t *testing.T) {
	dir := t.TempDir()
	patchPath := filepath.Join(dir, "patch.json")
	outPath := filepath.Join(dir, "out.wav")
	require.NoError(t, os.WriteFile(patchPath, []byte(testPatch), 0o644))

	cmd := &renderCommand{
		patch:    patchPath,
		out:      outPath,
		duration: 0.1,
		rate:     44100,
		depth:    16,
		channels: 1,
		block:    512,
	}
	require.NoError(t, cmd.Run())

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()
	dec := gowav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	assert.Equal(t, 1, buf.Format.NumChannels)
	// at least the requested tenth of a second was rendered
	assert.GreaterOrEqual(t, len(buf.Data), 4410)
}

func TestRenderNoRecorder(t *testing.T) {
	dir := t.TempDir()
	patchPath := filepath.Join(dir, "patch.json")
	require.NoError(t, os.WriteFile(patchPath, []byte(`{"modules":[{"id":0,"type":"osc.Osc"}],"cables":[]}`), 0o644))

	cmd := &renderCommand{
		patch:    patchPath,
		out:      filepath.Join(dir, "out.wav"),
		duration: 0.01,
		rate:     44100,
		depth:    16,
		channels: 1,
		block:    64,
	}
	assert.Error(t, cmd.Run())
}
