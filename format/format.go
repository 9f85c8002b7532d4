// Package format renders parse trees and forests as text.
package format

import (
	"encoding"
	"fmt"
	"io"
	"sort"

	"github.com/dhamidi/earley/ptree"
	"github.com/dhamidi/earley/sppf"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(tree *ptree.Tree) error
}

type ForestEncoder interface {
	encoding.TextMarshaler
	Encode(forest *sppf.Forest) error
}

var encoders = map[string]func(io.Writer) Encoder{
	"ascii":   func(w io.Writer) Encoder { return NewASCIIEncoder(w) },
	"bracket": func(w io.Writer) Encoder { return NewBracketEncoder(w) },
	"debug":   func(w io.Writer) Encoder { return NewDebugEncoder(w) },
	"json":    func(w io.Writer) Encoder { return NewJSONEncoder(w) },
}

// Names lists the formats accepted by NewEncoder.
func Names() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewEncoder returns the tree encoder registered under name.
func NewEncoder(name string, w io.Writer) (Encoder, error) {
	newEncoder, ok := encoders[name]
	if !ok {
		return nil, fmt.Errorf("unknown format %q, want one of %v", name, Names())
	}
	return newEncoder(w), nil
}

func write(w io.Writer, text []byte, err error) error {
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}
