package set

import "strings"

// FromStr converts a delimited string into a Set of strings.
// Items are trimmed of surrounding whitespace; empty items are skipped.
func FromStr(str, sep string) Set[string] {
	result := New[string]()
	for _, raw := range strings.Split(str, sep) {
		if item := strings.TrimSpace(raw); item != "" {
			result.Add(item)
		}
	}
	return result
}

// ToStr joins the items of a Set into a single sorted string separated by sep.
func ToStr(set Set[string], sep string) string {
	return strings.Join(Sorted(set), sep)
}
