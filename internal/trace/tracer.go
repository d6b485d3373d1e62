package trace

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/roach88/strparse/internal/engine"
	"github.com/roach88/strparse/internal/parsers"
	"github.com/roach88/strparse/internal/store"
)

// Result is a captured parse: the run row and its steps.
// Err is the parse error itself; it is also described in Run's error fields.
type Result struct {
	Run   store.Run
	Steps []engine.StepEvent
	Err   error
}

// Capture runs one parse of input with a Recorder attached and returns the
// run with an empty ID. Only configuration errors are returned as error;
// a failed parse is reported in Result.Err.
func Capture(cfg parsers.Config, input string, opts ...engine.Option) (*Result, error) {
	configJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode parser config: %w", err)
	}

	rec := NewRecorder()
	opts = append(opts, engine.WithObserver(rec))
	built, err := parsers.New(cfg, opts...)
	if err != nil {
		return nil, err
	}

	output, parseErr := built.Parser.Parse(input)

	run := store.Run{
		Parser:        cfg.Kind,
		Config:        string(configJSON),
		Input:         input,
		Output:        output,
		ErrorPosition: -1,
	}
	if info := parsers.Describe(parseErr); info != nil {
		run.ErrorCode = info.Code
		run.ErrorMessage = info.Message
		run.ErrorPosition = info.Position
	}
	steps := rec.Steps()
	run.StepCount = len(steps)

	return &Result{Run: run, Steps: steps, Err: parseErr}, nil
}

// Tracer captures parses and writes them to a store.
type Tracer struct {
	store  *store.Store
	ids    IDGenerator
	logger *slog.Logger
}

// Option configures a Tracer.
type Option func(*Tracer)

// WithIDGenerator sets the run id generator (default UUIDv7Generator).
func WithIDGenerator(g IDGenerator) Option {
	return func(t *Tracer) {
		if g != nil {
			t.ids = g
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTracer creates a Tracer writing to st.
func NewTracer(st *store.Store, opts ...Option) *Tracer {
	t := &Tracer{
		store:  st,
		ids:    UUIDv7Generator{},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run parses input with the configured parser and stores the run. A failed
// parse is still stored; its error is in Result.Err.
func (t *Tracer) Run(ctx context.Context, cfg parsers.Config, input string) (*Result, error) {
	res, err := Capture(cfg, input, engine.WithLogger(t.logger))
	if err != nil {
		return nil, err
	}
	res.Run.ID = t.ids.Generate()

	if err := t.store.WriteRun(ctx, res.Run, res.Steps); err != nil {
		return nil, err
	}
	t.logger.Info("run recorded",
		"run_id", res.Run.ID,
		"parser", res.Run.Parser,
		"steps", len(res.Steps),
		"failed", res.Run.Failed(),
		"fingerprint", Fingerprint(res.Run, res.Steps)[:12],
	)
	return res, nil
}
