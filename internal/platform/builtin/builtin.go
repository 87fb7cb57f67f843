// Package builtin assembles the registry of every dialect canon ships with.
package builtin

import (
	"github.com/thoreinstein/canon/internal/platform"
	"github.com/thoreinstein/canon/internal/platform/claude"
	"github.com/thoreinstein/canon/internal/platform/copilot"
	"github.com/thoreinstein/canon/internal/platform/cursor"
	"github.com/thoreinstein/canon/internal/platform/gemini"
	"github.com/thoreinstein/canon/internal/platform/generic"
	"github.com/thoreinstein/canon/internal/platform/kiro"
)

// Codecs returns one codec per supported format.
func Codecs() []platform.Codec {
	return []platform.Codec{
		cursor.New(),
		claude.NewSkill(),
		claude.NewAgent(),
		kiro.NewSteering(),
		kiro.NewAgent(),
		copilot.New(),
		gemini.New(),
		generic.New(),
	}
}

// New returns a registry holding every built-in codec. The registry is
// read-only by convention once returned.
func New() *platform.Registry {
	r := platform.NewRegistry()
	for _, c := range Codecs() {
		if err := r.Register(c); err != nil {
			// Codecs() is a fixed list; a failure is a programming error.
			panic(err)
		}
	}
	return r
}
