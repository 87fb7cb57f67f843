// Package assess scores how much of a package survives conversion to a
// target dialect.
//
// The score starts at 100 and loses a fixed amount per loss:
//
//	tools section dropped             -25
//	custom section of another dialect -15
//	rule item flattened into prose    -10
//	metadata hint with no equivalent   -5
//
// Executable content stripped before encoding is charged the same way: a
// tools section losing executable definitions as a dropped tools section,
// an executable custom section as a dropped custom section.
//
// Packages whose portable content is too thin to be useful lose another
// 10 points. That adjustment is not a loss and does not make a conversion
// lossy.
package assess

import (
	"fmt"

	"github.com/thoreinstein/canon/internal/canonical"
	"github.com/thoreinstein/canon/internal/format"
	"github.com/thoreinstein/canon/internal/platform"
	"github.com/thoreinstein/canon/internal/quality"
)

// Penalties.
const (
	PenaltyDroppedTools  = 25
	PenaltyForeignCustom = 15
	PenaltyCollapsedRule = 10
	PenaltyLostHint      = 5
	PenaltyThinContent   = 10
	ContentFloor         = 0.1
	MaxScore             = 100
)

// Removed lists executable content stripped from the package before
// encoding. Each entry is a loss even when the target could carry the
// section kind.
type Removed struct {
	Tools  []RemovedTools
	Custom []*canonical.CustomSection
}

// RemovedTools is a tools section that lost executable definitions. Partial
// is set when non-executable tools of the section remain.
type RemovedTools struct {
	Title   string
	Partial bool
}

// Assessment is the verdict on one conversion.
type Assessment struct {
	Score int

	// Lossy reports that at least one loss penalty applied.
	Lossy bool

	// BelowContentFloor reports that the thin-content adjustment applied.
	BelowContentFloor bool

	Warnings []string
}

// Assess inspects pkg as it is handed to the encoder for to, together with
// what was stripped from it on the way. It does not modify pkg and returns
// the same result for the same arguments.
func Assess(pkg *canonical.Package, from, to format.Format, caps platform.Capabilities, removed Removed) Assessment {
	var a Assessment
	penalty := 0
	loss := func(points int, msg string, args ...any) {
		penalty += points
		a.Warnings = append(a.Warnings, fmt.Sprintf(msg, args...))
	}

	toolsDropped := caps.Support(canonical.KindTools) == platform.Drop
	for _, t := range removed.Tools {
		// The remnant of a partial section is charged below when the
		// target drops tools.
		if t.Partial && toolsDropped {
			continue
		}
		loss(PenaltyDroppedTools, "tools section %s dropped: executable tool definitions are not carried between dialects", quoteTitle(t.Title))
	}
	for _, c := range removed.Custom {
		loss(PenaltyForeignCustom, "executable %s content%s from %s was dropped",
			slotName(c.Slot), titleSuffix(c.Title), dialectName(c.Dialect, from))
	}

	for _, s := range pkg.Sections {
		switch s := s.(type) {
		case *canonical.ToolsSection:
			if toolsDropped {
				loss(PenaltyDroppedTools, "tools section %s dropped: %s has no way to grant tools", quoteTitle(s.Title), to)
			}
		case *canonical.CustomSection:
			if s.Dialect != to {
				loss(PenaltyForeignCustom, "custom %s content%s from %s has no %s equivalent and was dropped",
					slotName(s.Slot), titleSuffix(s.Title), dialectName(s.Dialect, from), to)
			}
		case *canonical.RulesSection:
			if caps.CollapsesRules && len(s.Items) > 0 {
				loss(PenaltyCollapsedRule*len(s.Items), "%d rule(s)%s flattened into prose for %s",
					len(s.Items), titleSuffix(s.Title), to)
			}
		}
	}

	if meta := pkg.Metadata(); meta != nil {
		for _, h := range meta.Hints() {
			if !caps.CarriesHint(h) {
				loss(PenaltyLostHint, "metadata field %s has no %s equivalent and was dropped", h, to)
			}
		}
	}

	a.Lossy = penalty > 0
	if quality.ContentQuality(quality.PackageText(pkg)) < ContentFloor {
		a.BelowContentFloor = true
		penalty += PenaltyThinContent
	}
	a.Score = max(0, min(MaxScore, MaxScore-penalty))
	return a
}

func quoteTitle(title string) string {
	if title == "" {
		return "(untitled)"
	}
	return fmt.Sprintf("%q", title)
}

func titleSuffix(title string) string {
	if title == "" {
		return ""
	}
	return fmt.Sprintf(" %q", title)
}

func slotName(slot canonical.Slot) string {
	if slot == canonical.SlotFrontmatter {
		return "frontmatter"
	}
	return "body"
}

func dialectName(d, fallback format.Format) format.Format {
	if d == "" {
		return fallback
	}
	return d
}
