package msgfmt

import (
	"fmt"
	"strings"
)

// Notation selects the placeholder grammar of a template.
type Notation uint8

const (
	// Printf templates use java.util.Formatter style %-conversions.
	Printf Notation = iota + 1

	// MessageFormat templates use positional {n} placeholders.
	MessageFormat

	// NoFormat templates take no interpolated arguments.
	NoFormat
)

var notationNames = map[Notation]string{
	Printf:        "printf",
	MessageFormat: "message-format",
	NoFormat:      "no-format",
}

// ParseNotation parses a notation name. Matching ignores case and accepts
// '_' in place of '-', so both "message-format" and "MESSAGE_FORMAT" work.
func ParseNotation(s string) (Notation, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-") {
	case "printf":
		return Printf, nil
	case "message-format", "messageformat":
		return MessageFormat, nil
	case "no-format", "noformat", "none":
		return NoFormat, nil
	}
	return 0, fmt.Errorf("unknown notation %q", s)
}

func (n Notation) String() string {
	if name, ok := notationNames[n]; ok {
		return name
	}
	return fmt.Sprintf("Notation(%d)", uint8(n))
}

// MarshalText implements encoding.TextMarshaler.
func (n Notation) MarshalText() ([]byte, error) {
	name, ok := notationNames[n]
	if !ok {
		return nil, fmt.Errorf("unknown notation %d", uint8(n))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *Notation) UnmarshalText(text []byte) error {
	parsed, err := ParseNotation(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
