package msgfmt

import (
	"strings"
	"unicode"
)

// Conversion is the kind of a printf conversion specifier.
type Conversion uint8

const (
	ConvInvalid Conversion = iota
	ConvBoolean
	ConvHash
	ConvString
	ConvChar
	ConvDecimal
	ConvOctal
	ConvHex
	ConvScientific
	ConvFloat
	ConvGeneral
	ConvHexFloat
	ConvDateTime
	ConvPercent
	ConvLineSeparator
)

var conversionLetters = map[rune]Conversion{
	'b': ConvBoolean,
	'h': ConvHash,
	's': ConvString,
	'c': ConvChar,
	'd': ConvDecimal,
	'o': ConvOctal,
	'x': ConvHex,
	'e': ConvScientific,
	'f': ConvFloat,
	'g': ConvGeneral,
	'a': ConvHexFloat,
	't': ConvDateTime,
	'%': ConvPercent,
	'n': ConvLineSeparator,
}

var conversionNames = [...]string{
	ConvInvalid:       "invalid",
	ConvBoolean:       "boolean",
	ConvHash:          "hash",
	ConvString:        "string",
	ConvChar:          "char",
	ConvDecimal:       "decimal",
	ConvOctal:         "octal",
	ConvHex:           "hex",
	ConvScientific:    "scientific",
	ConvFloat:         "float",
	ConvGeneral:       "general",
	ConvHexFloat:      "hex-float",
	ConvDateTime:      "date-time",
	ConvPercent:       "percent",
	ConvLineSeparator: "line-separator",
}

// dateTimeSuffixes are the characters allowed after %t / %T.
const dateTimeSuffixes = "HIklMSLNpzZsQBbhAaCYyjmdeRTrDFc"

// ConversionOf resolves a conversion letter, ignoring case.
func ConversionOf(r rune) (Conversion, bool) {
	c, ok := conversionLetters[unicode.ToLower(r)]
	return c, ok
}

// IsDateTimeSuffix reports whether r may follow a date/time conversion.
func IsDateTimeSuffix(r rune) bool {
	return strings.ContainsRune(dateTimeSuffixes, r)
}

// ConsumesArgument reports whether the conversion reads a call argument.
// Percent and line separator conversions do not.
func (c Conversion) ConsumesArgument() bool {
	return c != ConvPercent && c != ConvLineSeparator && c != ConvInvalid
}

func (c Conversion) String() string {
	if int(c) < len(conversionNames) {
		return conversionNames[c]
	}
	return conversionNames[ConvInvalid]
}
