package assess

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thoreinstein/canon/internal/canonical"
	"github.com/thoreinstein/canon/internal/format"
	"github.com/thoreinstein/canon/internal/platform"
)

func rulesPackage(extra ...canonical.Section) *canonical.Package {
	sections := []canonical.Section{
		&canonical.MetadataSection{Title: "Go style"},
		&canonical.RulesSection{Title: "Rules", Items: []canonical.Rule{
			{Content: "Wrap errors with context"},
			{Content: "Never ignore returned errors"},
		}},
	}
	return &canonical.Package{Format: format.Cursor, Sections: append(sections, extra...)}
}

func tools() *canonical.ToolsSection {
	return &canonical.ToolsSection{Title: "Tools", Tools: []canonical.Tool{{Name: "Read"}}}
}

func TestAssess_DroppedTools(t *testing.T) {
	pkg := rulesPackage(tools())

	a := Assess(pkg, format.Cursor, format.Kiro, platform.MarkdownCapabilities(), Removed{})

	assert.Equal(t, 75, a.Score)
	assert.True(t, a.Lossy)
	assert.False(t, a.BelowContentFloor)
	assert.Len(t, a.Warnings, 1)
	assert.Contains(t, a.Warnings[0], "tools")
}

func TestAssess_NoLoss(t *testing.T) {
	a := Assess(rulesPackage(), format.Cursor, format.Copilot, platform.MarkdownCapabilities(), Removed{})

	assert.Equal(t, 100, a.Score)
	assert.False(t, a.Lossy)
	assert.Empty(t, a.Warnings)
}

func TestAssess_NativeToolsNoPenalty(t *testing.T) {
	caps := platform.MarkdownCapabilities()
	caps.Sections[canonical.KindTools] = platform.Native

	a := Assess(rulesPackage(tools()), format.Cursor, format.ClaudeSkill, caps, Removed{})
	assert.Equal(t, 100, a.Score)
	assert.False(t, a.Lossy)
}

func TestAssess_ForeignCustomPenaltyIsMonotonic(t *testing.T) {
	prev := 101
	for n := range 8 {
		var extra []canonical.Section
		for range n {
			extra = append(extra, &canonical.CustomSection{Dialect: format.Cursor, Content: "<div/>"})
		}
		a := Assess(rulesPackage(extra...), format.Cursor, format.Copilot, platform.MarkdownCapabilities(), Removed{})
		assert.Less(t, a.Score, prev+1)
		if n > 0 {
			assert.True(t, a.Lossy)
			assert.Len(t, a.Warnings, n)
		}
		if a.Score > 0 {
			assert.Less(t, a.Score, prev)
		}
		prev = a.Score
	}
}

func TestAssess_SameDialectCustomIsKept(t *testing.T) {
	pkg := rulesPackage(&canonical.CustomSection{Dialect: format.Copilot, Content: "<div/>"})
	a := Assess(pkg, format.Copilot, format.Copilot, platform.MarkdownCapabilities(), Removed{})
	assert.Equal(t, 100, a.Score)
}

func TestAssess_CollapsedRules(t *testing.T) {
	caps := platform.MarkdownCapabilities()
	caps.CollapsesRules = true

	a := Assess(rulesPackage(), format.Cursor, format.KiroAgent, caps, Removed{})
	assert.Equal(t, 80, a.Score)
	assert.True(t, a.Lossy)
	assert.Equal(t, []string{`2 rule(s) "Rules" flattened into prose for kiro-agent`}, a.Warnings)
}

func TestAssess_LostHints(t *testing.T) {
	pkg := rulesPackage()
	meta := pkg.Metadata()
	meta.Model = "sonnet"
	meta.License = "MIT"
	meta.Icon = "gear"

	caps := platform.MarkdownCapabilities()
	caps.Hints = []canonical.Hint{canonical.HintLicense}

	a := Assess(pkg, format.ClaudeSkill, format.Cursor, caps, Removed{})
	assert.Equal(t, 90, a.Score)
	assert.Len(t, a.Warnings, 2)
	assert.Contains(t, a.Warnings[0], "model")
	assert.Contains(t, a.Warnings[1], "icon")
}

func TestAssess_ContentFloorIsNotALoss(t *testing.T) {
	pkg := &canonical.Package{Sections: []canonical.Section{&canonical.MetadataSection{Title: "Empty"}}}

	a := Assess(pkg, format.Cursor, format.Copilot, platform.MarkdownCapabilities(), Removed{})
	assert.Equal(t, 90, a.Score)
	assert.False(t, a.Lossy)
	assert.True(t, a.BelowContentFloor)
	assert.Empty(t, a.Warnings)
}

func TestAssess_ClampedAtZero(t *testing.T) {
	var extra []canonical.Section
	for range 10 {
		extra = append(extra, tools())
	}
	a := Assess(rulesPackage(extra...), format.Cursor, format.Kiro, platform.MarkdownCapabilities(), Removed{})
	assert.Zero(t, a.Score)
	assert.Len(t, a.Warnings, 10)
}

func TestAssess_IdempotentAndPure(t *testing.T) {
	pkg := rulesPackage(tools(), &canonical.CustomSection{Dialect: format.Cursor, Title: "frontmatter", Content: "x: 1", Slot: canonical.SlotFrontmatter})
	before := pkg.Clone()

	first := Assess(pkg, format.Cursor, format.Generic, platform.MarkdownCapabilities(), Removed{})
	second := Assess(pkg, format.Cursor, format.Generic, platform.MarkdownCapabilities(), Removed{})

	assert.Equal(t, first, second)
	assert.Equal(t, before, pkg)
	assert.Equal(t, 60, first.Score)
	assert.True(t, strings.HasPrefix(first.Warnings[1], "custom frontmatter content \"frontmatter\" from cursor"))
}

func TestAssess_StrippedExecutableContent(t *testing.T) {
	native := platform.MarkdownCapabilities()
	native.Sections[canonical.KindTools] = platform.Native
	dropping := platform.MarkdownCapabilities()
	dropping.Sections[canonical.KindTools] = platform.Drop

	hooks := &canonical.CustomSection{Dialect: format.KiroAgent, Title: "agent fields", Slot: canonical.SlotFrontmatter, Executable: true}

	tests := []struct {
		name      string
		pkg       *canonical.Package
		caps      platform.Capabilities
		removed   Removed
		wantScore int
	}{
		{
			name:      "whole tools section stripped",
			pkg:       rulesPackage(),
			caps:      native,
			removed:   Removed{Tools: []RemovedTools{{Title: "MCP servers"}}},
			wantScore: 75,
		},
		{
			name:      "partial section kept by target",
			pkg:       rulesPackage(tools()),
			caps:      native,
			removed:   Removed{Tools: []RemovedTools{{Title: "Tools", Partial: true}}},
			wantScore: 75,
		},
		{
			name:      "partial section charged once when target drops tools",
			pkg:       rulesPackage(tools()),
			caps:      dropping,
			removed:   Removed{Tools: []RemovedTools{{Title: "Tools", Partial: true}}},
			wantScore: 75,
		},
		{
			name:      "executable custom section",
			pkg:       rulesPackage(),
			caps:      native,
			removed:   Removed{Custom: []*canonical.CustomSection{hooks}},
			wantScore: 85,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Assess(tt.pkg, format.KiroAgent, format.Generic, tt.caps, tt.removed)
			assert.True(t, a.Lossy)
			assert.Equal(t, tt.wantScore, a.Score)
		})
	}
}
