package msgfmt

import (
	"slices"
	"strconv"
	"strings"
)

// IndexKind tells how a placeholder selects its argument.
type IndexKind uint8

const (
	// NoIndex marks literal text.
	NoIndex IndexKind = iota
	// Implicit placeholders take the next sequential argument.
	Implicit
	// Explicit placeholders name a 1-based argument slot.
	Explicit
	// ReusePrevious placeholders take the argument of the preceding one.
	ReusePrevious
)

// Index is the argument selector of a Part.
type Index struct {
	Kind IndexKind
	Slot int // 1-based, Explicit only
}

// ExplicitIndex returns an Index naming slot.
func ExplicitIndex(slot int) Index {
	return Index{Kind: Explicit, Slot: slot}
}

func (i Index) String() string {
	switch i.Kind {
	case Implicit:
		return "implicit"
	case Explicit:
		return strconv.Itoa(i.Slot)
	case ReusePrevious:
		return "previous"
	}
	return "none"
}

// Part is one token of a template: literal text or a placeholder.
// The concrete types are LiteralPart, PrintfPart and MessageFormatPart.
type Part interface {
	// Index returns the argument selector; NoIndex for literal text.
	Index() Index
	// Position returns the ordinal of the token in the scanned stream.
	Position() int
	// Offset returns the byte offset of the token in the template.
	Offset() int
	// String returns the exact template text of the token.
	String() string

	part()
}

type token struct {
	index    Index
	position int
	offset   int
	text     string
}

func (t token) Index() Index   { return t.index }
func (t token) Position() int  { return t.position }
func (t token) Offset() int    { return t.offset }
func (t token) String() string { return t.text }
func (token) part()            {}

// LiteralPart is text between placeholders.
type LiteralPart struct {
	token
}

// Flag is a printf flag character.
type Flag rune

const (
	FlagLeftJustify Flag = '-'
	FlagAlternate   Flag = '#'
	FlagSign        Flag = '+'
	FlagSpace       Flag = ' '
	FlagZeroPad     Flag = '0'
	FlagGrouping    Flag = ','
	FlagParentheses Flag = '('
	FlagPrevious    Flag = '<'
)

// PrintfPart is a %-conversion specifier.
type PrintfPart struct {
	token

	Flags      []Flag // in template order, each at most once
	Width      int    // -1 when absent
	Precision  int    // -1 when absent
	Conversion Conversion
	DateTime   rune // suffix of a date/time conversion, 0 otherwise
}

// HasFlag reports whether the specifier carries f.
func (p *PrintfPart) HasFlag(f Flag) bool {
	return slices.Contains(p.Flags, f)
}

// MessageFormatPart is a {n[,type[,style]]} placeholder.
type MessageFormatPart struct {
	token

	FormatType  string
	FormatStyle string
}

// consumesArgument reports whether p reads a call argument.
func consumesArgument(p Part) bool {
	switch p := p.(type) {
	case *PrintfPart:
		return p.Conversion.ConsumesArgument()
	case *MessageFormatPart:
		return true
	}
	return false
}

// argumentKind names what an argument placeholder expects, for shape
// comparison and diagnostics.
func argumentKind(p Part) string {
	switch p := p.(type) {
	case *PrintfPart:
		return p.Conversion.String()
	case *MessageFormatPart:
		if t := strings.ToLower(strings.TrimSpace(p.FormatType)); t != "" {
			return t
		}
		return "plain"
	}
	return ""
}

// sortedByPosition returns a position-ordered copy of parts.
func sortedByPosition(parts []Part) []Part {
	sorted := slices.Clone(parts)
	slices.SortStableFunc(sorted, func(a, b Part) int {
		return a.Position() - b.Position()
	})
	return sorted
}
