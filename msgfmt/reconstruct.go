package msgfmt

import (
	"strings"

	"github.com/c3p0-box/msgcheck/erm"
)

// Reconstruct joins the text of parts in position order.
func Reconstruct(parts []Part) string {
	var b strings.Builder
	for _, p := range sortedByPosition(parts) {
		b.WriteString(p.String())
	}
	return b.String()
}

// selfCheck verifies that parts rebuild format. Conversion letters may
// differ in case.
func selfCheck(format string, parts []Part) error {
	rebuilt := Reconstruct(parts)
	if !strings.EqualFold(rebuilt, format) {
		return erm.ReconstructionMismatch(format, rebuilt)
	}
	return nil
}
