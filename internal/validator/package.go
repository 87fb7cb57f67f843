package validator

import (
	"strconv"
	"strings"

	"github.com/thoreinstein/canon/internal/canonical"
)

// Check validates pkg. Canonical invariant violations become errors and
// decoder warnings become warnings.
func Check(pkg *canonical.Package, warnings []string) *Result {
	r := &Result{Issues: []Issue{}}
	for _, ve := range canonical.Validate(pkg) {
		issue := r.Add(SeverityError, fieldPath(ve), ve.Message)
		if ve.Section >= 0 && pkg != nil && ve.Section < len(pkg.Sections) && pkg.Sections[ve.Section] != nil {
			issue.Context = map[string]string{"kind": string(pkg.Sections[ve.Section].Kind())}
		}
	}
	for _, w := range warnings {
		r.Add(SeverityWarning, "", w)
	}
	if pkg == nil {
		return r
	}

	if pkg.Subtype != "" {
		r.Add(SeverityInfo, "subtype", "detected "+string(pkg.Subtype))
	}
	if n := customCount(pkg); n > 0 {
		msg := strconv.Itoa(n) + " section(s) kept verbatim; only " + string(pkg.SourceFormat) + " can restore them"
		r.Add(SeverityInfo, "sections", msg).Context = map[string]string{"dialect": string(pkg.SourceFormat)}
	}
	return r
}

func fieldPath(ve canonical.ValidationError) string {
	if ve.Section < 0 {
		return ve.Field
	}
	var b strings.Builder
	b.WriteString("sections[")
	b.WriteString(strconv.Itoa(ve.Section))
	b.WriteString("]")
	if ve.Field != "" {
		b.WriteString(".")
		b.WriteString(ve.Field)
	}
	return b.String()
}

func customCount(pkg *canonical.Package) int {
	return pkg.Count(canonical.KindCustom)
}
