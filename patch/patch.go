// Package patch defines the document format a rack graph is translated
// to and from. The document is self-contained: module types, their
// parameter values and opaque state, and the cables between them. It is
// the boundary the engine exposes to storage and UI collaborators; the
// engine itself never interprets module state bytes.
package patch

import (
	"encoding/json"
	"fmt"
	"io"
)

// Patch is the root of the document.
type Patch struct {
	SampleRate float32  `json:"sampleRate,omitempty"`
	Modules    []Module `json:"modules"`
	Cables     []Cable  `json:"cables"`
}

// Module describes one module of the graph.
type Module struct {
	ID       int64           `json:"id"`
	Type     string          `json:"type"`
	Bypassed bool            `json:"bypassed,omitempty"`
	Params   []Param         `json:"params,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// Param is a parameter value snapshot. Smoothing targets are not part
// of the document: a loaded parameter starts at its stored value.
type Param struct {
	ID    int     `json:"id"`
	Value float32 `json:"value"`
}

// Cable describes one connection of the graph.
type Cable struct {
	ID             int64 `json:"id"`
	OutputModuleID int64 `json:"outputModuleId"`
	OutputID       int   `json:"outputId"`
	InputModuleID  int64 `json:"inputModuleId"`
	InputID        int   `json:"inputId"`
}

// Parse reads a patch document.
func Parse(r io.Reader) (*Patch, error) {
	var p Patch
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("parse patch: %w", err)
	}
	return &p, nil
}

// Write writes the document in its canonical indented form.
func (p *Patch) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("write patch: %w", err)
	}
	return nil
}
