// Package msgfmt validates message templates without formatting them.
//
// Two notations are supported: printf (java.util.Formatter conversions such
// as %s, %2$d or %<tY) and MessageFormat ({0}, {1,number}). A template is
// tokenized into Parts, the tokens are checked to rebuild the template
// exactly, and the number of distinct call arguments the template reads is
// counted. The count can be compared with the real call signature, and a
// translated template can be checked to read the same arguments with the
// same conversion kinds as its base template.
//
// Problems never surface as panics or plain errors: every call returns a
// Verdict describing the template, with a one-line summary and a detail
// message rendered in the Validator's language.
//
//	v := msgfmt.New(msgfmt.WithLanguage(language.Spanish))
//	verdict := v.ValidateCount(msgfmt.Printf, "%s failed with %d", 2)
//	if !verdict.Valid {
//		log.Println(verdict.Summary, verdict.Detail)
//	}
package msgfmt

import (
	"log/slog"

	"github.com/c3p0-box/msgcheck/erm"
	"golang.org/x/text/language"
)

// Verdict is the outcome of validating one template.
type Verdict struct {
	Valid         bool     `json:"valid"`
	ArgumentCount int      `json:"argumentCount"`
	Summary       string   `json:"summary"`
	Detail        string   `json:"detail,omitempty"`
	Format        string   `json:"format"`
	Kind          erm.Kind `json:"kind,omitempty"`

	cause erm.Error
}

// Cause returns the diagnosis behind an invalid verdict, nil when valid.
func (v Verdict) Cause() erm.Error {
	return v.cause
}

// Validator validates templates. It holds no mutable state and is safe for
// concurrent use.
type Validator struct {
	localizer *erm.Localizer
	logger    *slog.Logger
	tokenize  func(Notation, string) ([]Part, error)
}

// Option configures a Validator.
type Option func(*Validator)

// WithLanguage selects the language of verdict messages.
func WithLanguage(tag language.Tag) Option {
	return func(v *Validator) {
		v.localizer = erm.GetLocalizer(tag)
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// New creates a Validator. Messages default to English.
func New(opts ...Option) *Validator {
	v := &Validator{
		localizer: erm.GetLocalizer(language.English),
		logger:    slog.Default(),
		tokenize:  tokenize,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Language returns the language verdict messages are requested in.
func (v *Validator) Language() language.Tag {
	return v.localizer.Tag()
}

// Validate tokenizes format, self-checks the tokens and counts the
// arguments it requires.
func (v *Validator) Validate(notation Notation, format string) Verdict {
	args, err := v.inspect(notation, format)
	return v.verdict(format, len(args), err)
}

// ValidateCount validates format and requires its argument count to equal
// actual.
func (v *Validator) ValidateCount(notation Notation, format string, actual int) Verdict {
	args, err := v.inspect(notation, format)
	if err == nil && notation != NoFormat && len(args) != actual {
		err = erm.CountMismatch(len(args), actual)
	}
	return v.verdict(format, len(args), err)
}

// ValidateTranslation validates translated on its own and then checks that
// it reads the same arguments as base. The verdict describes translated; a
// malformed base is returned separately as the error, in which case only
// the translation's own validity is reported.
func (v *Validator) ValidateTranslation(notation Notation, base, translated string) (Verdict, error) {
	baseArgs, baseErr := v.inspect(notation, base)
	args, err := v.inspect(notation, translated)

	var baseResult error
	if baseErr != nil {
		baseResult = baseErr.WithSubject(base)
	}

	if err == nil && baseErr == nil && notation != NoFormat {
		err = wrapDiagnosis(compareShapes(base, translated, baseArgs, args))
	}
	return v.verdict(translated, len(args), err), baseResult
}

// inspect runs tokenizing, self-check and argument resolution, folding any
// panic into an Internal diagnosis.
func (v *Validator) inspect(notation Notation, format string) (args []Argument, diag erm.Error) {
	defer func() {
		if r := recover(); r != nil {
			args = nil
			diag = erm.Recovered(r)
			v.logger.With(
				slog.String("name", "msgfmt.inspect"),
				slog.String("format", format),
				slog.String("stack", erm.FormatStack(diag)),
			).Error("recovered from panic while validating format")
		}
	}()

	if notation == NoFormat {
		return nil, nil
	}

	parts, err := v.tokenize(notation, format)
	if err == nil {
		err = selfCheck(format, parts)
	}
	if err == nil {
		args, err = Arguments(parts)
	}
	if err != nil {
		return nil, wrapDiagnosis(err)
	}
	return args, nil
}

func (v *Validator) verdict(format string, count int, diag erm.Error) Verdict {
	if diag == nil {
		return Verdict{
			Valid:         true,
			ArgumentCount: count,
			Summary:       erm.Summary("", v.localizer),
			Format:        format,
		}
	}

	v.logger.With(
		slog.String("name", "msgfmt.Validator"),
		slog.String("format", format),
		slog.String("kind", string(diag.Kind())),
	).Debug("format rejected")

	return Verdict{
		ArgumentCount: count,
		Summary:       erm.Summary(diag.Kind(), v.localizer),
		Detail:        diag.LocalizedError(v.localizer),
		Format:        format,
		Kind:          diag.Kind(),
		cause:         diag,
	}
}

// Tokenize splits format into parts in the given notation. NoFormat
// templates are a single literal part.
func Tokenize(notation Notation, format string) (parts []Part, err error) {
	defer func() {
		if r := recover(); r != nil {
			parts = nil
			err = erm.Recovered(r)
		}
	}()
	return tokenize(notation, format)
}

func tokenize(notation Notation, format string) ([]Part, error) {
	switch notation {
	case Printf:
		return tokenizePrintf(format)
	case MessageFormat:
		return tokenizeMessageFormat(format)
	case NoFormat:
		if format == "" {
			return nil, nil
		}
		return []Part{&LiteralPart{token{text: format}}}, nil
	}
	return nil, erm.Malformed("notation.unknown").WithParam("value", notation.String())
}

// wrapDiagnosis converts err into an erm.Error, keeping nil as nil.
func wrapDiagnosis(err error) erm.Error {
	if err == nil {
		return nil
	}
	return erm.Wrap(err)
}

var defaultValidator = New()

// Validate validates format with the default English validator.
func Validate(notation Notation, format string) Verdict {
	return defaultValidator.Validate(notation, format)
}

// ValidateCount validates format and its argument count with the default
// English validator.
func ValidateCount(notation Notation, format string, actual int) Verdict {
	return defaultValidator.ValidateCount(notation, format, actual)
}

// ValidateTranslation compares a translation with its base template using
// the default English validator.
func ValidateTranslation(notation Notation, base, translated string) (Verdict, error) {
	return defaultValidator.ValidateTranslation(notation, base, translated)
}
