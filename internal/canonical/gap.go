package canonical

import "fmt"

// GapWarning is the warning attached to content a decoder kept verbatim in
// a custom section because nothing canonical could hold it.
func GapWarning(chars int) string {
	return fmt.Sprintf("%d characters of content could not be mapped to a canonical section and were preserved verbatim", chars)
}
