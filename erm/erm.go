// Package erm provides the diagnosis error type shared by the template
// validation engine and the layers built on top of it.
//
// Every problem found while validating a message template is an Error: it
// carries a Kind (malformed template, argument count mismatch, ...), an i18n
// message key with template parameters used to render a localized detail
// message, an optional wrapped root error, and optionally a single level of
// child errors when several problems are collected together.
//
// # Basic Usage
//
//	err := erm.Malformed("printf.duplicate_flag").
//		WithParam("flag", "-").
//		WithParam("token", "%--s")
//
//	erm.KindOf(err)                              // erm.MalformedTemplate
//	err.LocalizedError(erm.GetLocalizer(language.Spanish))
//
// # Error Collection Usage
//
//	container := erm.New(erm.MalformedTemplate, "catalog has errors", nil)
//	container.AddError(err1)
//	container.AddError(err2)
//	container.ErrMap() // subject -> messages
//
// Stack traces are captured only for Internal errors, which signal defects
// rather than bad input.
package erm

import (
	"fmt"
	"runtime"
	"strings"
)

// Kind classifies a diagnosis.
type Kind string

const (
	// MalformedTemplate covers unbalanced or nested braces, stray '%',
	// unknown conversions, duplicate flags and bad numerics.
	MalformedTemplate Kind = "malformed_template"

	// ArgumentCountMismatch means the template needs a different number of
	// arguments than the call site supplies.
	ArgumentCountMismatch Kind = "argument_count_mismatch"

	// TranslationShapeMismatch means a translation's arguments differ in
	// number or conversion kind from its base template.
	TranslationShapeMismatch Kind = "translation_shape_mismatch"

	// InternalReconstructionMismatch means the tokens did not rebuild the
	// template they came from.
	InternalReconstructionMismatch Kind = "internal_reconstruction_mismatch"

	// Internal wraps a recovered panic or other defect.
	Internal Kind = "internal"

	// UnknownMessage marks a translated message with no base message.
	UnknownMessage Kind = "unknown_message"

	// InvalidRequest marks unusable input at an API boundary.
	InvalidRequest Kind = "invalid_request"
)

// NonSubjectErrors is the ErrMap key for errors without a subject.
const NonSubjectErrors = "non_subject_errors"

// =============================================================================
// Core Types & Interfaces
// =============================================================================

// Error represents a diagnosis. Error values are immutable after creation
// except for child collection through AddError/AddErrors, and all methods
// tolerate nil receivers.
type Error interface {
	error

	// Kind returns the diagnosis classification
	Kind() Kind

	// Unwrap returns the wrapped error for errors.Is/As compatibility
	Unwrap() error

	// Stack returns the stack trace captured for Internal errors
	Stack() []uintptr

	// MessageKey returns the i18n message key for localization
	MessageKey() string

	// Subject returns what the error is about: a message ID or a template
	Subject() string

	// Params returns template parameters for i18n message substitution
	Params() map[string]interface{}

	// AddError adds another error to this error's collection.
	AddError(Error)

	// AddErrors adds multiple errors to this error's collection.
	AddErrors([]Error)

	// AllErrors returns all child errors.
	AllErrors() []Error

	// HasErrors returns true if this error contains child errors.
	HasErrors() bool

	// LocalizedError returns the error message rendered by the localizer
	LocalizedError(*Localizer) string

	// LocalizedErrMap returns a map of subjects to localized messages
	LocalizedErrMap(*Localizer) map[string][]string

	// ErrMap returns a map of subjects to messages using the default localizer
	ErrMap() map[string][]string

	// WithMessageKey sets the i18n message key and returns a new Error
	WithMessageKey(messageKey string) Error

	// WithSubject sets the subject and returns a new Error
	WithSubject(subject string) Error

	// WithParam adds a template parameter and returns a new Error
	WithParam(key string, value interface{}) Error
}

// StackError is the Error implementation.
type StackError struct {
	kind       Kind
	msg        string
	root       error
	stack      []uintptr
	messageKey string
	subject    string
	params     map[string]interface{}
	errors     []Error
}

// =============================================================================
// Core Constructors
// =============================================================================

// New creates a new Error of the given kind. msg is a plain fallback message
// used when no message key is set; err is an optional root cause.
// A stack trace is captured only for Internal errors.
func New(kind Kind, msg string, err error) Error {
	if kind == "" {
		kind = Internal
	}

	var stack []uintptr
	if kind == Internal {
		const depth = 32
		var pcs [depth]uintptr
		n := runtime.Callers(2, pcs[:])
		stack = pcs[:n]
	}

	return &StackError{
		kind:  kind,
		msg:   msg,
		root:  err,
		stack: stack,
	}
}

// =============================================================================
// Basic StackError Methods
// =============================================================================

// Error renders the error with the default localizer when a message key or
// child errors are present, otherwise the root error or plain message.
func (e *StackError) Error() string {
	if e == nil {
		return "<nil>"
	}

	if e.messageKey != "" || len(e.errors) > 0 {
		return e.LocalizedError(GetLocalizer(defaultLanguage))
	}
	return e.getFallbackMessage()
}

// Kind returns the diagnosis classification.
func (e *StackError) Kind() Kind {
	if e == nil {
		return ""
	}
	return e.kind
}

// Unwrap returns the underlying error.
func (e *StackError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.root
}

// Stack returns a copy of the captured stack trace.
func (e *StackError) Stack() []uintptr {
	if e == nil || e.stack == nil {
		return nil
	}
	stack := make([]uintptr, len(e.stack))
	copy(stack, e.stack)
	return stack
}

// MessageKey returns the i18n message key for localization.
func (e *StackError) MessageKey() string {
	if e == nil {
		return ""
	}
	return e.messageKey
}

// Subject returns what the error is about.
func (e *StackError) Subject() string {
	if e == nil {
		return ""
	}
	return e.subject
}

// Params returns the template parameters.
func (e *StackError) Params() map[string]interface{} {
	if e == nil {
		return nil
	}
	return e.params
}

// WithMessageKey sets the i18n message key.
func (e *StackError) WithMessageKey(messageKey string) Error {
	if e == nil {
		return nil
	}
	new := *e
	new.messageKey = messageKey
	return &new
}

// WithSubject sets the subject.
func (e *StackError) WithSubject(subject string) Error {
	if e == nil {
		return nil
	}
	new := *e
	new.subject = subject
	return &new
}

// WithParam adds a template parameter.
func (e *StackError) WithParam(key string, value interface{}) Error {
	if e == nil {
		return nil
	}
	new := *e
	params := make(map[string]interface{}, len(e.params)+1)
	for k, v := range e.params {
		params[k] = v
	}
	params[key] = value
	new.params = params
	return &new
}

// =============================================================================
// Error Collection Methods
// =============================================================================

// AddError adds a child error. Children of err are flattened so only one
// level of collection exists.
func (e *StackError) AddError(err Error) {
	if e == nil || err == nil {
		return
	}

	if err.HasErrors() {
		for _, child := range err.AllErrors() {
			if child != nil {
				e.errors = append(e.errors, child)
			}
		}
		return
	}
	e.errors = append(e.errors, err)
}

// AddErrors adds multiple errors to this error's collection.
func (e *StackError) AddErrors(errs []Error) {
	if e == nil {
		return
	}
	for _, err := range errs {
		e.AddError(err)
	}
}

// AllErrors returns all child errors.
func (e *StackError) AllErrors() []Error {
	if e == nil {
		return nil
	}
	return e.errors
}

// HasErrors returns true if this error contains child errors.
func (e *StackError) HasErrors() bool {
	if e == nil {
		return false
	}
	return len(e.errors) > 0
}

// =============================================================================
// Localization Methods
// =============================================================================

// ErrMap returns a map of subjects to messages using the default localizer.
func (e *StackError) ErrMap() map[string][]string {
	return e.LocalizedErrMap(GetLocalizer(defaultLanguage))
}

// LocalizedError returns the error message using the provided localizer,
// falling back to the default language when localizer is nil.
func (e *StackError) LocalizedError(localizer *Localizer) string {
	if e == nil {
		return "<nil>"
	}
	if localizer == nil {
		localizer = GetLocalizer(defaultLanguage)
	}

	if len(e.errors) > 0 {
		return e.formatChildErrors(localizer)
	}

	if e.messageKey != "" {
		if msg, err := localizer.Localize(&LocalizeConfig{
			MessageID:    e.messageKey,
			TemplateData: e.params,
			PluralCount:  e.pluralCount(),
		}); err == nil && msg != "" {
			return msg
		}
	}
	return e.getFallbackMessage()
}

// pluralCount picks the "count" parameter, if any, for plural selection.
func (e *StackError) pluralCount() int {
	if n, ok := e.params["count"].(int); ok {
		return n
	}
	return 1
}

func (e *StackError) formatChildErrors(localizer *Localizer) string {
	messages := make([]string, 0, len(e.errors))
	for _, err := range e.errors {
		if err != nil {
			messages = append(messages, err.LocalizedError(localizer))
		}
	}

	switch len(messages) {
	case 0:
		return ""
	case 1:
		return messages[0]
	default:
		return localizer.MustLocalize(&LocalizeConfig{
			MessageID: "error.multiple",
			TemplateData: map[string]interface{}{
				"errors": strings.Join(messages, "; "),
			},
		})
	}
}

// getFallbackMessage provides a message when localization is unavailable.
func (e *StackError) getFallbackMessage() string {
	if e.root != nil {
		return e.root.Error()
	}
	if e.msg != "" {
		return e.msg
	}
	if e.messageKey != "" {
		return fmt.Sprintf("%s (key: %s)", e.kind, e.messageKey)
	}
	if e.kind != "" {
		return string(e.kind)
	}
	return "unknown error"
}

// LocalizedErrMap returns a map of subjects to localized error messages.
func (e *StackError) LocalizedErrMap(localizer *Localizer) map[string][]string {
	if e == nil {
		return nil
	}

	result := make(map[string][]string)
	if len(e.errors) > 0 {
		for _, err := range e.errors {
			if err == nil {
				continue
			}
			subject := err.Subject()
			if subject == "" {
				subject = NonSubjectErrors
			}
			result[subject] = append(result[subject], err.LocalizedError(localizer))
		}
	} else if e.messageKey != "" {
		subject := e.subject
		if subject == "" {
			subject = NonSubjectErrors
		}
		result[subject] = append(result[subject], e.LocalizedError(localizer))
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

// =============================================================================
// Helper Functions
// =============================================================================

// KindOf extracts the Kind from any error. Non-erm errors are Internal and
// nil has no kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if e, ok := err.(Error); ok {
		return e.Kind()
	}
	return Internal
}

// Message extracts the plain fallback message from an erm error, or the
// error text for other errors.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if se, ok := err.(*StackError); ok && se.msg != "" {
		return se.msg
	}
	return err.Error()
}

// Wrap converts err into an Error. erm errors are returned unchanged, other
// errors become Internal.
func Wrap(err error) Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(Error); ok {
		return e
	}
	return New(Internal, err.Error(), err)
}

// FormatStack formats a stack trace for logging. Returns an empty string
// when err carries none.
func FormatStack(err Error) string {
	if err == nil {
		return ""
	}

	pcs := err.Stack()
	if len(pcs) == 0 {
		return ""
	}

	var buf strings.Builder
	frames := runtime.CallersFrames(pcs)
	for {
		frame, more := frames.Next()
		_, _ = fmt.Fprintf(&buf, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return buf.String()
}

// =============================================================================
// Convenience Constructors
// =============================================================================

// Malformed creates a MalformedTemplate error with the given message key.
func Malformed(messageKey string) Error {
	return New(MalformedTemplate, "", nil).WithMessageKey(messageKey)
}

// CountMismatch creates an ArgumentCountMismatch error.
func CountMismatch(required, actual int) Error {
	return New(ArgumentCountMismatch, "", nil).
		WithMessageKey("count.mismatch").
		WithParam("count", required).
		WithParam("required", required).
		WithParam("actual", actual)
}

// ShapeMismatch creates a TranslationShapeMismatch error comparing base and
// translation.
func ShapeMismatch(messageKey, base, translation string) Error {
	return New(TranslationShapeMismatch, "", nil).
		WithMessageKey(messageKey).
		WithParam("base", base).
		WithParam("translation", translation)
}

// ReconstructionMismatch creates an InternalReconstructionMismatch error.
func ReconstructionMismatch(original, rebuilt string) Error {
	return New(InternalReconstructionMismatch, "", nil).
		WithMessageKey("reconstruction.mismatch").
		WithParam("original", original).
		WithParam("rebuilt", rebuilt)
}

// Recovered converts a recovered panic value into an Internal error whose
// message is the panic text.
func Recovered(v interface{}) Error {
	if err, ok := v.(error); ok {
		return New(Internal, err.Error(), err)
	}
	return New(Internal, fmt.Sprint(v), nil)
}

// UnknownMessageError reports a translated message id with no base message.
func UnknownMessageError(id, base string) Error {
	return New(UnknownMessage, "", nil).
		WithMessageKey("catalog.unknown_message").
		WithSubject(id).
		WithParam("id", id).
		WithParam("base", base)
}

// InvalidRequestError reports unusable API input.
func InvalidRequestError(reason string, err error) Error {
	return New(InvalidRequest, reason, err).
		WithMessageKey("request.invalid").
		WithParam("reason", reason)
}
