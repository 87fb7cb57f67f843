package convert

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/thoreinstein/canon/internal/assess"
	"github.com/thoreinstein/canon/internal/canonical"
	"github.com/thoreinstein/canon/internal/errors"
	"github.com/thoreinstein/canon/internal/format"
	"github.com/thoreinstein/canon/internal/logging"
	"github.com/thoreinstein/canon/internal/platform"
)

// Request is one conversion of raw bytes.
type Request struct {
	Raw      []byte
	From, To format.Format
	Options  platform.Options
	Hints    platform.Hints

	// DropKinds lists section kinds to remove before encoding.
	DropKinds []canonical.Kind
}

// Result is a finished conversion.
type Result struct {
	canonical.ConversionResult

	// Package is the decoded package, before filtering, with the score of
	// this conversion recorded in its Compatibility map.
	Package *canonical.Package

	Assessment assess.Assessment
}

// Event describes a finished conversion for observers.
type Event struct {
	From, To format.Format

	// State is Done or Failed; FailedIn is the state that failed.
	State    State
	FailedIn State

	Duration time.Duration
	Score    int
	Lossy    bool
	Warnings int
	Err      error
}

// Observer receives one event per conversion.
type Observer interface {
	ObserveConversion(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) ObserveConversion(e Event) { f(e) }

// Converter resolves codecs from a registry and runs conversions. It holds
// no per-conversion state and is safe for concurrent use.
type Converter struct {
	registry  *platform.Registry
	logger    *slog.Logger
	observers []Observer
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) { c.logger = l }
}

// WithObserver adds an observer.
func WithObserver(o Observer) Option {
	return func(c *Converter) { c.observers = append(c.observers, o) }
}

// New creates a Converter over registry.
func New(registry *platform.Registry, opts ...Option) *Converter {
	c := &Converter{registry: registry}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Convert decodes raw as from and encodes it as to.
func (c *Converter) Convert(raw []byte, from, to format.Format, opts platform.Options) (*canonical.ConversionResult, error) {
	res, err := c.Run(Request{Raw: raw, From: from, To: to, Options: opts})
	if err != nil {
		return nil, err
	}
	return &res.ConversionResult, nil
}

// Run performs a full conversion.
func (c *Converter) Run(req Request) (*Result, error) {
	r := c.begin(req.From, req.To)

	dec, enc, err := c.resolve(req.From, req.To)
	if err != nil {
		return nil, r.fail(err)
	}

	pkg, warnings := decode(dec, req.Raw, req.Hints)
	r.logger.Debug("decoded", "sections", len(pkg.Sections), "warnings", len(warnings))
	return r.finish(pkg, warnings, enc, req.Options, req.DropKinds)
}

// Render encodes an already decoded package, such as one read from the
// store. pkg is not modified; the returned Result carries a copy with the
// new score recorded.
func (c *Converter) Render(pkg *canonical.Package, to format.Format, opts platform.Options) (*Result, error) {
	from := format.Format("")
	if pkg != nil {
		from = pkg.SourceFormat
	}
	r := c.begin(from, to)

	if pkg == nil {
		return nil, r.fail(errors.Mark(errors.New("nil package"), errors.ErrInvalidPackage))
	}
	for i, s := range pkg.Sections {
		if s == nil {
			return nil, r.fail(errors.Mark(errors.Newf("section %d is nil", i), errors.ErrInvalidPackage))
		}
	}
	codec, ok := c.registry.Lookup(to)
	if !ok {
		return nil, r.fail(&errors.UnsupportedPairError{From: string(from), To: string(to), Unknown: string(to)})
	}
	return r.finish(pkg.Clone(), nil, codec, opts, nil)
}

// Decode decodes raw as from without encoding it. Like Run it never fails
// on content; the only error is an unknown format.
func (c *Converter) Decode(raw []byte, from format.Format, hints platform.Hints) (*canonical.Package, []string, error) {
	dec, ok := c.registry.Lookup(from)
	if !ok {
		return nil, nil, &errors.UnsupportedPairError{From: string(from), Unknown: string(from)}
	}
	pkg, warnings := decode(dec, raw, hints)
	if warnings == nil {
		warnings = []string{}
	}
	return pkg, warnings, nil
}

func (c *Converter) resolve(from, to format.Format) (platform.Decoder, platform.Encoder, error) {
	dec, ok := c.registry.Lookup(from)
	if !ok {
		return nil, nil, &errors.UnsupportedPairError{From: string(from), To: string(to), Unknown: string(from)}
	}
	enc, ok := c.registry.Lookup(to)
	if !ok {
		return nil, nil, &errors.UnsupportedPairError{From: string(from), To: string(to), Unknown: string(to)}
	}
	return dec, enc, nil
}

// run tracks one conversion through the state machine.
type run struct {
	c        *Converter
	from, to format.Format
	state    State
	start    time.Time
	logger   *slog.Logger
}

func (c *Converter) begin(from, to format.Format) *run {
	return &run{
		c:      c,
		from:   from,
		to:     to,
		state:  Decoding,
		start:  time.Now(),
		logger: c.logger.With("from", from, "to", to),
	}
}

func (r *run) enter(s State) {
	r.logger.Log(context.Background(), logging.LevelTrace, "conversion state", "from_state", r.state, "to_state", s)
	r.state = s
}

func (r *run) fail(err error) error {
	failedIn := r.state
	r.enter(Failed)
	r.logger.Debug("conversion failed", "state", failedIn, "error", err)
	r.notify(Event{State: Failed, FailedIn: failedIn, Err: err})
	return err
}

func (r *run) notify(e Event) {
	e.From, e.To = r.from, r.to
	e.Duration = time.Since(r.start)
	for _, o := range r.c.observers {
		o.ObserveConversion(e)
	}
}

// finish runs Transforming and Encoding over pkg, which it owns.
func (r *run) finish(pkg *canonical.Package, warnings []string, enc platform.Encoder, opts platform.Options, drop []canonical.Kind) (*Result, error) {
	r.enter(Transforming)
	working := pkg.Clone()
	transformWarnings, removed := Transform(working, drop)
	warnings = append(warnings, transformWarnings...)

	r.enter(Encoding)
	rendering, err := encode(enc, working, opts)
	if err != nil {
		return nil, r.fail(errors.Wrapf(err, "encoding %s", r.to))
	}
	warnings = append(warnings, rendering.Warnings...)

	a := assess.Assess(working, r.from, r.to, enc.Capabilities(), removed)
	warnings = append(warnings, a.Warnings...)
	if warnings == nil {
		warnings = []string{}
	}

	pkg.SetCompatibility(r.to, a.Score)
	r.enter(Done)
	r.logger.Debug("converted", "score", a.Score, "lossy", a.Lossy, "warnings", len(warnings))
	r.notify(Event{State: Done, Score: a.Score, Lossy: a.Lossy, Warnings: len(warnings)})

	return &Result{
		ConversionResult: canonical.ConversionResult{
			Content:         rendering.Content,
			Format:          r.to,
			Warnings:        warnings,
			LossyConversion: a.Lossy,
			QualityScore:    a.Score,
		},
		Package:    pkg,
		Assessment: a,
	}, nil
}

// decode calls dec and turns a panic into a package holding the input
// verbatim.
func decode(dec platform.Decoder, raw []byte, hints platform.Hints) (pkg *canonical.Package, warnings []string) {
	defer func() {
		if p := recover(); p != nil {
			pkg, warnings = verbatim(dec.Format(), raw, hints, fmt.Sprint(p))
		}
	}()
	pkg, warnings = dec.Decode(raw, hints)
	if pkg == nil {
		return verbatim(dec.Format(), raw, hints, "no package returned")
	}
	return pkg, warnings
}

func verbatim(f format.Format, raw []byte, hints platform.Hints, reason string) (*canonical.Package, []string) {
	pkg := platform.NewPackage(f, "", hints)
	pkg.EnsureMetadata()
	pkg.Sections = append(pkg.Sections, &canonical.CustomSection{
		Dialect: f,
		Content: string(raw),
		Slot:    canonical.SlotBody,
	})
	return pkg, []string{
		fmt.Sprintf("%s decoder failed: %s", f, reason),
		canonical.GapWarning(utf8.RuneCount(raw)),
	}
}

// encode calls enc and turns a panic into an error.
func encode(enc platform.Encoder, pkg *canonical.Package, opts platform.Options) (r *platform.Rendering, err error) {
	defer func() {
		if p := recover(); p != nil {
			r, err = nil, errors.Newf("%s encoder panicked: %v", enc.Format(), p)
		}
	}()
	r, err = enc.Encode(pkg, opts)
	if err == nil && r == nil {
		err = errors.Newf("%s encoder returned no rendering", enc.Format())
	}
	return r, err
}
