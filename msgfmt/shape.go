package msgfmt

import (
	"fmt"
	"strconv"

	"github.com/c3p0-box/msgcheck/erm"
)

// compareShapes checks that a translation reads the same arguments as its
// base template: the same number of distinct arguments, and the same
// conversion kind at each position once both lists are in slot order.
// Reordering placeholders is allowed and slot numbers need not match.
func compareShapes(base, translation string, baseArgs, translatedArgs []Argument) error {
	if len(baseArgs) != len(translatedArgs) {
		return erm.ShapeMismatch("translation.length", base, translation).
			WithParam("expected", len(baseArgs)).
			WithParam("translated", len(translatedArgs))
	}

	for i := range baseArgs {
		want, got := baseArgs[i], translatedArgs[i]
		if argumentKind(want.Part) != argumentKind(got.Part) {
			return erm.ShapeMismatch("translation.conversion", base, translation).
				WithParam("slot", slotLabel(want)).
				WithParam("expected", argumentKind(want.Part)).
				WithParam("actual", argumentKind(got.Part))
		}
	}
	return nil
}

// slotLabel renders an argument slot the way its notation writes it.
func slotLabel(a Argument) string {
	if _, ok := a.Part.(*MessageFormatPart); ok {
		return fmt.Sprintf("{%d}", a.Slot-1)
	}
	return strconv.Itoa(a.Slot)
}
