package catalog

import (
	"log/slog"
	"sync"

	"github.com/c3p0-box/msgcheck/erm"
	"github.com/c3p0-box/msgcheck/msgfmt"
	"github.com/c3p0-box/msgcheck/set"
	"golang.org/x/text/language"
)

// Checker validates the templates of a catalog in one notation.
type Checker struct {
	notation  msgfmt.Notation
	validator *msgfmt.Validator
	logger    *slog.Logger
	only      set.Set[string]
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithValidator sets the validator used for every template.
func WithValidator(v *msgfmt.Validator) CheckerOption {
	return func(c *Checker) {
		if v != nil {
			c.validator = v
		}
	}
}

// WithLogger sets the checker's logger.
func WithLogger(logger *slog.Logger) CheckerOption {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLanguages restricts translation checks to the given language tags.
// Base messages are always checked.
func WithLanguages(tags set.Set[string]) CheckerOption {
	return func(c *Checker) {
		c.only = tags
	}
}

// NewChecker creates a Checker for templates written in notation.
func NewChecker(notation msgfmt.Notation, opts ...CheckerOption) *Checker {
	c := &Checker{
		notation:  notation,
		validator: msgfmt.New(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check validates every base message on its own and every translated
// message against its base counterpart. Translations are checked
// concurrently, one goroutine per language.
func (c *Checker) Check(cat *Catalog) *Report {
	report := &Report{Base: cat.Base().String()}

	var translated []language.Tag
	for _, tag := range cat.Languages() {
		switch {
		case tag == cat.Base():
			report.Languages = append(report.Languages, tag.String())
		case c.wants(tag):
			report.Languages = append(report.Languages, tag.String())
			translated = append(translated, tag)
		}
	}

	baseIssues, baseChecked := c.checkBase(cat)
	report.add(baseIssues...)
	report.Checked += baseChecked

	results := make([][]Issue, len(translated))
	checked := make([]int, len(translated))
	var wg sync.WaitGroup
	for i, tag := range translated {
		wg.Add(1)
		go func(i int, tag language.Tag) {
			defer wg.Done()
			results[i], checked[i] = c.checkLanguage(cat, tag)
		}(i, tag)
	}
	wg.Wait()

	for i := range translated {
		report.add(results[i]...)
		report.Checked += checked[i]
	}

	c.logger.With(
		slog.String("name", "catalog.Check"),
		slog.String("base", report.Base),
		slog.Int("languages", len(report.Languages)),
		slog.Int("checked", report.Checked),
		slog.Int("issues", len(report.Issues)),
	).Info("catalog checked")

	return report
}

func (c *Checker) wants(tag language.Tag) bool {
	return c.only.IsEmpty() || c.only.Contains(tag.String())
}

func (c *Checker) checkBase(cat *Catalog) ([]Issue, int) {
	var issues []Issue
	checked := 0
	tag := cat.Base()

	for _, id := range cat.IDs(tag) {
		m, _ := cat.Message(tag, id)
		for _, f := range forms(m) {
			checked++
			if v := c.validator.Validate(c.notation, f.text); !v.Valid {
				issues = append(issues, issueFrom(tag, id, f.name, v))
			}
		}
	}
	return issues, checked
}

func (c *Checker) checkLanguage(cat *Catalog, tag language.Tag) ([]Issue, int) {
	var issues []Issue
	checked := 0

	for _, id := range cat.IDs(tag) {
		m, _ := cat.Message(tag, id)
		base, ok := cat.Message(cat.Base(), id)
		if !ok {
			issues = append(issues, c.unknownMessage(tag, id, cat.Base()))
			continue
		}

		for _, f := range forms(m) {
			baseText := counterpart(base, f.name)
			if baseText == "" {
				continue
			}
			checked++

			// Invalid base templates are already reported by checkBase.
			v, _ := c.validator.ValidateTranslation(c.notation, baseText, f.text)
			if !v.Valid {
				issues = append(issues, issueFrom(tag, id, f.name, v))
			}
		}
	}
	return issues, checked
}

func (c *Checker) unknownMessage(tag language.Tag, id string, base language.Tag) Issue {
	localizer := erm.GetLocalizer(c.validator.Language())
	err := erm.UnknownMessageError(id, base.String())
	return Issue{
		Language:  tag.String(),
		MessageID: id,
		Kind:      err.Kind(),
		Summary:   erm.Summary(err.Kind(), localizer),
		Detail:    err.LocalizedError(localizer),
	}
}

func issueFrom(tag language.Tag, id, form string, v msgfmt.Verdict) Issue {
	return Issue{
		Language:  tag.String(),
		MessageID: id,
		Form:      form,
		Kind:      v.Kind,
		Summary:   v.Summary,
		Detail:    v.Detail,
		Format:    v.Format,
	}
}
