package msgfmt

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/c3p0-box/msgcheck/erm"
)

var messageFormatPattern = regexp.MustCompile(`\{\}|\{.+?\}`)

// tokenizeMessageFormat splits format into literal text and {n} placeholders.
// Argument numbers are 0-based in the template and stored as 1-based slots.
func tokenizeMessageFormat(format string) ([]Part, error) {
	var parts []Part
	last := 0

	for _, m := range messageFormatPattern.FindAllStringIndex(format, -1) {
		if m[0] > last {
			lit, err := messageFormatLiteral(format, last, m[0], len(parts))
			if err != nil {
				return nil, err
			}
			parts = append(parts, lit)
		}

		p, err := parseMessageFormatPlaceholder(format[m[0]:m[1]], m[0], len(parts))
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
		last = m[1]
	}

	if last < len(format) {
		lit, err := messageFormatLiteral(format, last, len(format), len(parts))
		if err != nil {
			return nil, err
		}
		parts = append(parts, lit)
	}
	return parts, nil
}

func messageFormatLiteral(format string, start, end, position int) (*LiteralPart, error) {
	text := format[start:end]
	if i := strings.IndexAny(text, "{}"); i >= 0 {
		return nil, erm.Malformed("messageformat.unbalanced").
			WithParam("char", text[i:i+1]).
			WithParam("offset", start+i)
	}
	return &LiteralPart{token{index: Index{Kind: NoIndex}, position: position, offset: start, text: text}}, nil
}

func parseMessageFormatPlaceholder(text string, offset, position int) (*MessageFormatPart, error) {
	if len(text) < 2 || text[0] != '{' || text[len(text)-1] != '}' {
		return nil, erm.Malformed("messageformat.unbalanced").WithParam("char", "{").WithParam("offset", offset)
	}

	p := &MessageFormatPart{
		token: token{index: Index{Kind: Implicit}, position: position, offset: offset, text: text},
	}

	inner := text[1 : len(text)-1]
	if strings.ContainsAny(inner, "{}") {
		return nil, erm.Malformed("messageformat.nested").WithParam("token", text)
	}
	if inner == "" {
		return p, nil
	}

	head, rest, hasRest := strings.Cut(inner, ",")
	head = strings.TrimSpace(head)
	n, err := strconv.Atoi(head)
	if err != nil || n < 0 || !isDigits(head) {
		return nil, erm.Malformed("messageformat.invalid_index").WithParam("value", head).WithParam("token", text)
	}
	p.index = ExplicitIndex(n + 1)

	if hasRest {
		formatType, style, _ := strings.Cut(rest, ",")
		p.FormatType = strings.TrimSpace(formatType)
		p.FormatStyle = strings.TrimSpace(style)
	}
	return p, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
