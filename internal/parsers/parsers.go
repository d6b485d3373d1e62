// Package parsers builds any of the strparse parsers from a serializable
// configuration, and classifies the errors they return.
package parsers

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/strparse/internal/charseq"
	"github.com/roach88/strparse/internal/engine"
	"github.com/roach88/strparse/internal/grammar"
	"github.com/roach88/strparse/internal/passthrough"
	"github.com/roach88/strparse/internal/quoted"
	"github.com/roach88/strparse/internal/truncate"
)

// Parser kinds.
const (
	KindQuoted      = "quoted"
	KindPassThrough = "passthrough"
	KindTruncate    = "truncate"
	KindGrammar     = "grammar"
)

// Kinds lists every parser kind.
var Kinds = []string{KindQuoted, KindPassThrough, KindTruncate, KindGrammar}

// Parser is the common interface of all parsers.
type Parser interface {
	Parse(input string) (string, error)
}

// Config selects and configures a parser. It round-trips through JSON and
// YAML so runs can be stored and replayed.
type Config struct {
	Kind string `json:"parser" yaml:"parser"`

	// Limit is the truncate limit (negative selects the default).
	Limit int `json:"limit,omitempty" yaml:"limit,omitempty"`

	// GrammarPath and GrammarName select a CUE grammar.
	GrammarPath string `json:"grammar_path,omitempty" yaml:"grammar,omitempty"`
	GrammarName string `json:"grammar_name,omitempty" yaml:"grammar_name,omitempty"`

	Graphemes bool   `json:"graphemes,omitempty" yaml:"graphemes,omitempty"`
	Normalize string `json:"normalize,omitempty" yaml:"normalize,omitempty"`
	MaxSteps  int    `json:"max_steps,omitempty" yaml:"max_steps,omitempty"`
}

// Validate checks the configuration without building a parser.
func (c Config) Validate() error {
	switch c.Kind {
	case KindQuoted, KindPassThrough, KindTruncate:
	case KindGrammar:
		if c.GrammarPath == "" {
			return errors.New("grammar parser requires a grammar path")
		}
	default:
		return fmt.Errorf("unknown parser %q: must be one of %v", c.Kind, Kinds)
	}
	if _, ok := charseq.ParseForm(c.Normalize); !ok {
		return fmt.Errorf("unknown normalization %q: must be none, nfc or nfd", c.Normalize)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("max steps must be non-negative, got %d", c.MaxSteps)
	}
	return nil
}

// Options returns the engine options implied by the configuration.
func (c Config) Options() []engine.Option {
	var opts []engine.Option
	if c.Graphemes {
		opts = append(opts, engine.WithSegmenter(charseq.Graphemes))
	}
	if form, ok := charseq.ParseForm(c.Normalize); ok && form != charseq.FormNone {
		opts = append(opts, engine.WithNormalization(form))
	}
	if c.MaxSteps > 0 {
		opts = append(opts, engine.WithMaxSteps(c.MaxSteps))
	}
	return opts
}

// Built is a parser together with a function naming its states.
type Built struct {
	Parser    Parser
	StateName func(engine.State) string
}

// New builds the configured parser. Extra options (logger, observer) are
// applied after the configuration's own.
func New(c Config, extra ...engine.Option) (*Built, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	opts := append(c.Options(), extra...)

	switch c.Kind {
	case KindQuoted:
		return &Built{Parser: quoted.New(opts...), StateName: quoted.StateName}, nil

	case KindPassThrough:
		return &Built{Parser: passthrough.New(opts...), StateName: simpleStateName}, nil

	case KindTruncate:
		return &Built{Parser: truncate.New(c.Limit, opts...), StateName: simpleStateName}, nil

	default:
		g, err := grammar.LoadNamed(c.GrammarPath, c.GrammarName)
		if err != nil {
			return nil, fmt.Errorf("load grammar: %w", err)
		}
		slog.Debug("grammar loaded", "name", g.Name, "states", len(g.States))
		return &Built{
			Parser: g.Parser(opts...),
			StateName: func(s engine.State) string {
				if name, ok := g.StateName(s); ok {
					return name
				}
				return fmt.Sprintf("state_%d", s)
			},
		}, nil
	}
}

// simpleStateName names the states of the pass-through and truncate
// parsers, which share the same two-state layout.
func simpleStateName(s engine.State) string {
	switch s {
	case engine.StateUnknown:
		return "unknown"
	case passthrough.StateInValue:
		return "in_value"
	default:
		return fmt.Sprintf("state_%d", s)
	}
}
