package platform

import (
	"sync"

	"github.com/thoreinstein/canon/internal/errors"
	"github.com/thoreinstein/canon/internal/format"
)

// Sentinel errors for registry operations.
var (
	// ErrAlreadyRegistered is returned when a codec for the same format is
	// already present.
	ErrAlreadyRegistered = errors.New("codec already registered")

	// ErrInvalidFormat is returned when a codec reports a format outside the
	// supported enumeration.
	ErrInvalidFormat = errors.New("invalid codec format")
)

// Registry maps formats to codecs. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	codecs map[format.Format]Codec
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[format.Format]Codec),
	}
}

// Register adds a codec under its own format.
// Returns an error if:
//   - the codec is nil or its format is not a supported format
//   - a codec for the same format is already registered
func (r *Registry) Register(c Codec) error {
	if c == nil || !c.Format().Valid() {
		return ErrInvalidFormat
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.codecs[c.Format()]; exists {
		return errors.Wrapf(ErrAlreadyRegistered, "%s", c.Format())
	}
	r.codecs[c.Format()] = c
	return nil
}

// Lookup returns the codec for f.
func (r *Registry) Lookup(f format.Format) (Codec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.codecs[f]
	return c, ok
}

// All returns registered codecs in format declaration order.
func (r *Registry) All() []Codec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Codec
	for _, f := range format.All() {
		if c, ok := r.codecs[f]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Formats returns the registered formats in declaration order.
func (r *Registry) Formats() []format.Format {
	codecs := r.All()
	out := make([]format.Format, len(codecs))
	for i, c := range codecs {
		out[i] = c.Format()
	}
	return out
}
