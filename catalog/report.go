package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/c3p0-box/msgcheck/erm"
)

// Issue is one rejected message template.
type Issue struct {
	Language  string   `json:"language"`
	MessageID string   `json:"id"`
	Form      string   `json:"form,omitempty"`
	Kind      erm.Kind `json:"kind"`
	Summary   string   `json:"summary"`
	Detail    string   `json:"detail,omitempty"`
	Format    string   `json:"format,omitempty"`
}

// Subject names the message the issue belongs to, as "es:greeting.one".
func (i Issue) Subject() string {
	subject := i.Language + ":" + i.MessageID
	if i.Form != "" {
		subject += "." + i.Form
	}
	return subject
}

// Report collects the issues of one catalog check in a stable order: base
// language first, then translations by tag, each by message id.
type Report struct {
	Base      string   `json:"base"`
	Languages []string `json:"languages"`
	Checked   int      `json:"checked"`
	Issues    []Issue  `json:"issues"`
}

func (r *Report) add(issues ...Issue) {
	r.Issues = append(r.Issues, issues...)
}

// Valid reports whether no issue was found.
func (r *Report) Valid() bool {
	return len(r.Issues) == 0
}

// ErrMap groups issue details by subject.
func (r *Report) ErrMap() map[string][]string {
	if r.Valid() {
		return nil
	}

	result := make(map[string][]string)
	for _, issue := range r.Issues {
		msg := issue.Detail
		if msg == "" {
			msg = issue.Summary
		}
		result[issue.Subject()] = append(result[issue.Subject()], msg)
	}
	return result
}

// ToJSON returns the report as JSON.
func (r *Report) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// String returns a human-readable report, one issue per line.
func (r *Report) String() string {
	var b strings.Builder
	for _, issue := range r.Issues {
		fmt.Fprintf(&b, "%s: %s", issue.Subject(), issue.Summary)
		if issue.Detail != "" {
			fmt.Fprintf(&b, ": %s", issue.Detail)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "checked %d templates in %d languages, %d issues", r.Checked, len(r.Languages), len(r.Issues))
	return b.String()
}
