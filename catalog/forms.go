package catalog

import "github.com/nicksnyder/go-i18n/v2/i18n"

// Plural form names in CLDR order.
const (
	FormZero  = "zero"
	FormOne   = "one"
	FormTwo   = "two"
	FormFew   = "few"
	FormMany  = "many"
	FormOther = "other"
)

type form struct {
	name string
	text string
}

// forms lists the non-empty plural forms of m in CLDR order.
func forms(m *i18n.Message) []form {
	all := []form{
		{FormZero, m.Zero},
		{FormOne, m.One},
		{FormTwo, m.Two},
		{FormFew, m.Few},
		{FormMany, m.Many},
		{FormOther, m.Other},
	}
	out := all[:0]
	for _, f := range all {
		if f.text != "" {
			out = append(out, f)
		}
	}
	return out
}

// counterpart returns the base text a translated plural form is checked
// against: the same form when the base has it, otherwise its other form.
func counterpart(base *i18n.Message, name string) string {
	for _, f := range forms(base) {
		if f.name == name {
			return f.text
		}
	}
	return base.Other
}
