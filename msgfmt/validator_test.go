package msgfmt

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/c3p0-box/msgcheck/erm"
	"golang.org/x/text/language"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		notation  Notation
		format    string
		wantValid bool
		wantCount int
		wantKind  erm.Kind
	}{
		{"two strings", Printf, "%s %s", true, 2, ""},
		{"repeated explicit", Printf, "%1$s %1$s", true, 1, ""},
		{"message format", MessageFormat, "{0} {1}", true, 2, ""},
		{"lone percent", Printf, "%", false, 0, erm.MalformedTemplate},
		{"unbalanced brace", MessageFormat, "{0", false, 0, erm.MalformedTemplate},
		{"no format", NoFormat, "%s {0} %", true, 0, ""},
		{"unknown notation", Notation(42), "%s", false, 0, erm.MalformedTemplate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Validate(tt.notation, tt.format)

			if v.Valid != tt.wantValid {
				t.Fatalf("Valid = %v, want %v (detail %q)", v.Valid, tt.wantValid, v.Detail)
			}
			if v.ArgumentCount != tt.wantCount {
				t.Fatalf("ArgumentCount = %d, want %d", v.ArgumentCount, tt.wantCount)
			}
			if v.Kind != tt.wantKind {
				t.Fatalf("Kind = %q, want %q", v.Kind, tt.wantKind)
			}
			if v.Format != tt.format {
				t.Fatalf("Format = %q, want %q", v.Format, tt.format)
			}
			if v.Summary == "" {
				t.Fatal("Summary should always be set")
			}
			if tt.wantValid != (v.Cause() == nil) {
				t.Fatalf("Cause() = %v for valid=%v", v.Cause(), v.Valid)
			}
			if !tt.wantValid && v.Detail == "" {
				t.Fatal("invalid verdicts need a detail message")
			}
		})
	}
}

func TestValidateMessages(t *testing.T) {
	v := Validate(Printf, "%")
	if v.Summary != "format is malformed" {
		t.Errorf("Summary = %q", v.Summary)
	}
	if v.Detail != "unknown conversion character '%' at offset 0" {
		t.Errorf("Detail = %q", v.Detail)
	}

	valid := Validate(Printf, "%s")
	if valid.Summary != "format is valid" || valid.Detail != "" {
		t.Errorf("unexpected valid verdict %+v", valid)
	}

	unknown := Validate(Notation(42), "%s")
	if unknown.Detail != "unknown format notation 'Notation(42)'" {
		t.Errorf("Detail = %q", unknown.Detail)
	}

	for _, format := range []string{"%<s", "%1$<s"} {
		leading := Validate(Printf, format)
		want := "'" + format + "' reuses the previous argument but no argument precedes it, so formatting always fails"
		if leading.Kind != erm.MalformedTemplate || leading.Detail != want {
			t.Errorf("%s: kind=%q Detail = %q, want %q", format, leading.Kind, leading.Detail, want)
		}
	}
}

func TestValidateCount(t *testing.T) {
	tests := []struct {
		name       string
		notation   Notation
		format     string
		actual     int
		wantValid  bool
		wantCount  int
		wantKind   erm.Kind
		wantDetail string
	}{
		{"matching", Printf, "%s %s", 2, true, 2, "", ""},
		{"too many supplied", Printf, "%s", 2, false, 1, erm.ArgumentCountMismatch, "format requires 1 argument but 2 supplied"},
		{"too few supplied", MessageFormat, "{0} {1} {2}", 1, false, 3, erm.ArgumentCountMismatch, "format requires 3 arguments but 1 supplied"},
		{"malformed wins", Printf, "%q", 1, false, 0, erm.MalformedTemplate, "unknown conversion character 'q' at offset 1"},
		{"no format ignores count", NoFormat, "text", 3, true, 0, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValidateCount(tt.notation, tt.format, tt.actual)
			if v.Valid != tt.wantValid || v.ArgumentCount != tt.wantCount || v.Kind != tt.wantKind {
				t.Fatalf("got valid=%v count=%d kind=%q, want valid=%v count=%d kind=%q",
					v.Valid, v.ArgumentCount, v.Kind, tt.wantValid, tt.wantCount, tt.wantKind)
			}
			if v.Detail != tt.wantDetail {
				t.Fatalf("Detail = %q, want %q", v.Detail, tt.wantDetail)
			}
		})
	}
}

func TestValidateTranslation(t *testing.T) {
	tests := []struct {
		name        string
		notation    Notation
		base        string
		translation string
		wantValid   bool
		wantCount   int
		wantKind    erm.Kind
		wantDetail  string
		wantBaseErr bool
	}{
		{
			name: "reordered", notation: Printf,
			base: "%s failed with %d", translation: "%2$d causó fallo en %1$s",
			wantValid: true, wantCount: 2,
		},
		{
			name: "conversion changed", notation: Printf,
			base: "%s failed with %d", translation: "%s failed with %s",
			wantCount: 2, wantKind: erm.TranslationShapeMismatch,
			wantDetail: "argument 2 is 'decimal' in '%s failed with %d' but 'string' in '%s failed with %s'",
		},
		{
			name: "argument dropped", notation: Printf,
			base: "%s failed with %d", translation: "%s falló",
			wantCount: 1, wantKind: erm.TranslationShapeMismatch,
			wantDetail: "'%s falló' takes 1 arguments but '%s failed with %d' takes 2",
		},
		{
			name: "slots renumbered", notation: Printf,
			base: "%1$s %3$s", translation: "%s %s",
			wantValid: true, wantCount: 2,
		},
		{
			name: "slots renumbered with same kinds", notation: Printf,
			base: "%1$s %2$d", translation: "%1$s %3$d",
			wantValid: true, wantCount: 2,
		},
		{
			name: "renumbered slot changes kind", notation: Printf,
			base: "%1$s %3$d", translation: "%2$d %1$d",
			wantCount: 2, wantKind: erm.TranslationShapeMismatch,
			wantDetail: "argument 1 is 'string' in '%1$s %3$d' but 'decimal' in '%2$d %1$d'",
		},
		{
			name: "case and date suffix ignored", notation: Printf,
			base: "%x at %tY", translation: "%X el %tm",
			wantValid: true, wantCount: 2,
		},
		{
			name: "reuse previous", notation: Printf,
			base: "%s %s", translation: "%2$s %<s %1$s",
			wantValid: true, wantCount: 2,
		},
		{
			name: "message format reordered", notation: MessageFormat,
			base: "{0} of {1,number}", translation: "{1,Number} de {0}",
			wantValid: true, wantCount: 2,
		},
		{
			name: "message format type changed", notation: MessageFormat,
			base: "{0} of {1,number}", translation: "{1} de {0}",
			wantCount: 2, wantKind: erm.TranslationShapeMismatch,
			wantDetail: "argument {1} is 'number' in '{0} of {1,number}' but 'plain' in '{1} de {0}'",
		},
		{
			name: "malformed translation", notation: Printf,
			base: "%s", translation: "%s %",
			wantKind:   erm.MalformedTemplate,
			wantDetail: "unknown conversion character '%' at offset 3",
		},
		{
			name: "malformed base", notation: Printf,
			base: "%", translation: "%s",
			wantValid: true, wantCount: 1, wantBaseErr: true,
		},
		{
			name: "no format", notation: NoFormat,
			base: "%s", translation: "{0}",
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, baseErr := ValidateTranslation(tt.notation, tt.base, tt.translation)

			if v.Valid != tt.wantValid || v.ArgumentCount != tt.wantCount || v.Kind != tt.wantKind {
				t.Fatalf("got valid=%v count=%d kind=%q, want valid=%v count=%d kind=%q (detail %q)",
					v.Valid, v.ArgumentCount, v.Kind, tt.wantValid, tt.wantCount, tt.wantKind, v.Detail)
			}
			if v.Detail != tt.wantDetail {
				t.Fatalf("Detail = %q, want %q", v.Detail, tt.wantDetail)
			}
			if v.Format != tt.translation {
				t.Fatalf("Format = %q, want the translation", v.Format)
			}
			if (baseErr != nil) != tt.wantBaseErr {
				t.Fatalf("base error = %v, want error: %v", baseErr, tt.wantBaseErr)
			}
			if baseErr != nil {
				if erm.KindOf(baseErr) != erm.MalformedTemplate {
					t.Fatalf("base error kind = %q", erm.KindOf(baseErr))
				}
				if subject := erm.Wrap(baseErr).Subject(); subject != tt.base {
					t.Fatalf("base error subject = %q, want %q", subject, tt.base)
				}
			}
		})
	}
}

func TestValidatorLanguage(t *testing.T) {
	v := New(WithLanguage(language.Spanish))
	if v.Language() != language.Spanish {
		t.Fatalf("Language() = %v", v.Language())
	}

	verdict := v.ValidateCount(Printf, "%s", 2)
	if verdict.Summary != "el número de argumentos del formato no coincide con la llamada" {
		t.Errorf("Summary = %q", verdict.Summary)
	}
	if verdict.Detail != "el formato requiere 1 argumento pero se pasan 2" {
		t.Errorf("Detail = %q", verdict.Detail)
	}

	fallback := New(WithLanguage(language.German), WithLogger(nil)).Validate(Printf, "%")
	if fallback.Summary != "format is malformed" {
		t.Errorf("unsupported languages should fall back to english, got %q", fallback.Summary)
	}
}

func TestTokenizeNoFormatAndUnknown(t *testing.T) {
	parts, err := Tokenize(NoFormat, "50% off {0}")
	if err != nil || len(parts) != 1 || parts[0].String() != "50% off {0}" {
		t.Fatalf("unexpected no-format parts %v (%v)", parts, err)
	}

	if parts, err := Tokenize(NoFormat, ""); err != nil || len(parts) != 0 {
		t.Fatalf("empty no-format template should have no parts, got %v (%v)", parts, err)
	}

	if _, err := Tokenize(Notation(0), "x"); erm.KindOf(err) != erm.MalformedTemplate {
		t.Fatalf("expected malformed error for unknown notation, got %v", err)
	}
}

func TestValidatorConcurrentUse(t *testing.T) {
	v := New()
	formats := []string{"%s %d", "%1$s %1$s", "%", "%2$d %1$s", "%tY-%<tm"}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			format := formats[i%len(formats)]
			first := v.Validate(Printf, format)
			second := v.Validate(Printf, format)
			first.cause, second.cause = nil, nil
			if first != second {
				t.Errorf("verdicts differ for %q: %+v vs %+v", format, first, second)
			}
		}(i)
	}
	wg.Wait()
}

func TestValidatorRecoversPanics(t *testing.T) {
	tests := []struct {
		name       string
		value      interface{}
		wantDetail string
	}{
		{"string", "tokenizer exploded", "tokenizer exploded"},
		{"error", errors.New("index out of range"), "index out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			v := New(WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
			v.tokenize = func(Notation, string) ([]Part, error) {
				panic(tt.value)
			}

			verdicts := map[string]Verdict{
				"Validate":      v.Validate(Printf, "%s"),
				"ValidateCount": v.ValidateCount(Printf, "%s", 1),
			}
			translated, baseErr := v.ValidateTranslation(Printf, "%s", "%s")
			verdicts["ValidateTranslation"] = translated

			for op, got := range verdicts {
				if got.Valid || got.Kind != erm.Internal {
					t.Fatalf("%s: got valid=%v kind=%q, want an internal verdict", op, got.Valid, got.Kind)
				}
				if got.Detail != tt.wantDetail {
					t.Errorf("%s: Detail = %q, want %q", op, got.Detail, tt.wantDetail)
				}
				if got.Summary != "internal error while validating format" {
					t.Errorf("%s: Summary = %q", op, got.Summary)
				}
				if got.ArgumentCount != 0 {
					t.Errorf("%s: ArgumentCount = %d, want 0", op, got.ArgumentCount)
				}
			}
			if erm.KindOf(baseErr) != erm.Internal {
				t.Errorf("base error kind = %q, want %q", erm.KindOf(baseErr), erm.Internal)
			}
			if !strings.Contains(logs.String(), "recovered from panic while validating format") {
				t.Errorf("panic was not logged: %q", logs.String())
			}
		})
	}
}
