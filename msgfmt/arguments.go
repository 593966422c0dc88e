package msgfmt

import (
	"cmp"
	"slices"

	"github.com/c3p0-box/msgcheck/erm"
	"github.com/c3p0-box/msgcheck/set"
)

// Argument is one distinct call-site argument consumed by a template.
type Argument struct {
	Slot int  // 1-based argument position at the call site
	Part Part // first placeholder reading the argument
}

// Arguments resolves the placeholders of parts to distinct argument slots,
// ordered by slot. Implicit placeholders take the next sequential slot,
// explicit ones name their slot and '<' placeholders reuse the slot of the
// preceding argument placeholder. Percent and line separator conversions
// consume nothing.
func Arguments(parts []Part) ([]Argument, error) {
	var (
		args     []Argument
		seen     = set.New[int]()
		implicit int
		previous int
	)

	for _, p := range sortedByPosition(parts) {
		if !consumesArgument(p) {
			continue
		}

		var slot int
		switch idx := p.Index(); idx.Kind {
		case Explicit:
			slot = idx.Slot
		case Implicit:
			implicit++
			slot = implicit
		case ReusePrevious:
			if previous == 0 {
				return nil, erm.Malformed("printf.no_previous").WithParam("token", p.String())
			}
			slot = previous
		default:
			continue
		}

		previous = slot
		if seen.Insert(slot) {
			args = append(args, Argument{Slot: slot, Part: p})
		}
	}

	slices.SortStableFunc(args, func(a, b Argument) int {
		return cmp.Compare(a.Slot, b.Slot)
	})
	return args, nil
}

// CountArguments returns the number of distinct arguments parts require.
func CountArguments(parts []Part) (int, error) {
	args, err := Arguments(parts)
	if err != nil {
		return 0, err
	}
	return len(args), nil
}
