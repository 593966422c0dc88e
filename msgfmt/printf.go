package msgfmt

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/c3p0-box/msgcheck/erm"
	"github.com/c3p0-box/msgcheck/set"
)

// %[index$][flags][width][.precision][t]conversion
var printfPattern = regexp.MustCompile(`%(\d+\$)?([-#+ 0,(<]*)?(\d+)?(\.\d+)?([tT])?([a-zA-Z%])`)

// tokenizePrintf splits format into literal text and conversion specifiers.
func tokenizePrintf(format string) ([]Part, error) {
	var parts []Part
	last := 0

	for _, m := range printfPattern.FindAllStringSubmatchIndex(format, -1) {
		if m[0] > last {
			lit, err := printfLiteral(format, last, m[0], len(parts))
			if err != nil {
				return nil, err
			}
			parts = append(parts, lit)
		}

		p, err := parsePrintfSpec(format, m, len(parts))
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
		last = m[1]
	}

	if last < len(format) {
		lit, err := printfLiteral(format, last, len(format), len(parts))
		if err != nil {
			return nil, err
		}
		parts = append(parts, lit)
	}
	return parts, nil
}

// printfLiteral builds the literal part for format[start:end]. A '%' left in
// literal text did not form a conversion and is reported with the character
// that follows it.
func printfLiteral(format string, start, end, position int) (*LiteralPart, error) {
	text := format[start:end]
	if i := strings.IndexByte(text, '%'); i >= 0 {
		char := "%"
		if r, size := utf8.DecodeRuneInString(format[start+i+1:]); size > 0 {
			char = string(r)
		}
		return nil, erm.Malformed("printf.unknown_conversion").
			WithParam("char", char).
			WithParam("offset", start+i)
	}
	return &LiteralPart{token{index: Index{Kind: NoIndex}, position: position, offset: start, text: text}}, nil
}

// group returns the text of submatch n, or "" when it did not participate.
func group(format string, m []int, n int) string {
	if m[2*n] < 0 {
		return ""
	}
	return format[m[2*n]:m[2*n+1]]
}

func parsePrintfSpec(format string, m []int, position int) (*PrintfPart, error) {
	text := format[m[0]:m[1]]
	p := &PrintfPart{
		token:     token{index: Index{Kind: Implicit}, position: position, offset: m[0], text: text},
		Width:     -1,
		Precision: -1,
	}

	if s := group(format, m, 1); s != "" {
		digits := strings.TrimSuffix(s, "$")
		n, err := strconv.Atoi(digits)
		if err != nil || n < 1 {
			return nil, erm.Malformed("printf.invalid_index").WithParam("value", digits).WithParam("token", text)
		}
		p.index = ExplicitIndex(n)
	}

	seen := set.New[Flag]()
	for _, r := range group(format, m, 2) {
		f := Flag(r)
		if !seen.Insert(f) {
			return nil, erm.Malformed("printf.duplicate_flag").WithParam("flag", string(r)).WithParam("token", text)
		}
		p.Flags = append(p.Flags, f)
	}
	// '<' wins over an explicit index.
	if seen.Contains(FlagPrevious) {
		p.index = Index{Kind: ReusePrevious}
	}

	if s := group(format, m, 3); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return nil, erm.Malformed("printf.invalid_width").WithParam("value", s).WithParam("token", text)
		}
		p.Width = n
	}

	if s := group(format, m, 4); s != "" {
		digits := s[1:]
		n, err := strconv.Atoi(digits)
		if err != nil || n < 0 {
			return nil, erm.Malformed("printf.invalid_precision").WithParam("value", digits).WithParam("token", text)
		}
		p.Precision = n
	}

	letter, _ := utf8.DecodeRuneInString(group(format, m, 6))
	if group(format, m, 5) != "" {
		if !IsDateTimeSuffix(letter) {
			return nil, erm.Malformed("printf.unknown_datetime").WithParam("char", string(letter)).WithParam("token", text)
		}
		p.Conversion = ConvDateTime
		p.DateTime = letter
		return p, nil
	}

	conv, ok := ConversionOf(letter)
	if !ok {
		return nil, erm.Malformed("printf.unknown_conversion").
			WithParam("char", string(letter)).
			WithParam("offset", m[12])
	}
	if conv == ConvDateTime {
		return nil, erm.Malformed("printf.missing_datetime").WithParam("token", text)
	}
	p.Conversion = conv
	return p, nil
}
