package erm

import (
	"sync"

	"github.com/c3p0-box/msgcheck/i18n"
	"golang.org/x/text/language"
)

var (
	defaultLanguage = language.English

	// messages holds the diagnostic tables of every shipped language.
	messages = i18n.NewManager(defaultLanguage)

	localizers sync.Map // language.Tag -> *Localizer
)

func init() {
	for tag, table := range messageTables {
		if err := messages.AddTranslations(tag, table); err != nil {
			panic("erm: failed to register diagnostic messages: " + err.Error())
		}
	}
}

// Localizer renders diagnostic messages in one language.
type Localizer struct {
	language language.Tag
}

// LocalizeConfig selects a message and its template data.
type LocalizeConfig struct {
	MessageID    string
	TemplateData interface{}
	PluralCount  int
}

// GetLocalizer returns the localizer for tag. Languages without diagnostic
// messages fall back to their parent language and then to English.
// It's safe to call concurrently; the same tag yields the same instance.
func GetLocalizer(tag language.Tag) *Localizer {
	if l, ok := localizers.Load(tag); ok {
		return l.(*Localizer)
	}
	l, _ := localizers.LoadOrStore(tag, &Localizer{language: tag})
	return l.(*Localizer)
}

// Languages lists the languages diagnostics are shipped in, default first.
func Languages() []language.Tag {
	return []language.Tag{language.English, language.Spanish}
}

// Tag returns the requested language of the localizer.
func (l *Localizer) Tag() language.Tag {
	if l == nil {
		return defaultLanguage
	}
	return l.language
}

// Localize renders the configured message. An empty string is returned
// when the message id is unknown.
func (l *Localizer) Localize(config *LocalizeConfig) (string, error) {
	if config == nil {
		return "", nil
	}

	count := config.PluralCount
	if count == 0 && config.TemplateData == nil {
		count = 1
	}
	result := messages.Translate(l.Tag(), config.MessageID, count, config.TemplateData)
	if result == config.MessageID {
		return "", nil
	}
	return result, nil
}

// MustLocalize renders the configured message, returning the message id
// when it is unknown.
func (l *Localizer) MustLocalize(config *LocalizeConfig) string {
	if config == nil {
		return ""
	}
	count := config.PluralCount
	if count == 0 {
		count = 1
	}
	return messages.Translate(l.Tag(), config.MessageID, count, config.TemplateData)
}

// Summary returns the one-line summary for a diagnosis kind. The empty
// kind summarizes a valid template.
func Summary(kind Kind, localizer *Localizer) string {
	if localizer == nil {
		localizer = GetLocalizer(defaultLanguage)
	}
	key := "summary.valid"
	if kind != "" {
		key = "summary." + string(kind)
	}
	return localizer.MustLocalize(&LocalizeConfig{MessageID: key})
}

var messageTables = map[language.Tag]map[string]*i18n.Translation{
	language.English: {
		"summary.valid":                            {Singular: "format is valid"},
		"summary.malformed_template":               {Singular: "format is malformed"},
		"summary.argument_count_mismatch":          {Singular: "format argument count does not match the call"},
		"summary.translation_shape_mismatch":       {Singular: "translation arguments do not match the base format"},
		"summary.internal_reconstruction_mismatch": {Singular: "format tokenizer self-check failed"},
		"summary.internal":                         {Singular: "internal error while validating format"},
		"summary.unknown_message":                  {Singular: "translation has no base message"},
		"summary.invalid_request":                  {Singular: "invalid request"},

		"printf.unknown_conversion":   {Singular: "unknown conversion character '{{.char}}' at offset {{.offset}}"},
		"printf.duplicate_flag":       {Singular: "flag '{{.flag}}' is repeated in '{{.token}}'"},
		"printf.invalid_index":        {Singular: "invalid argument index '{{.value}}' in '{{.token}}'"},
		"printf.invalid_width":        {Singular: "invalid width '{{.value}}' in '{{.token}}'"},
		"printf.invalid_precision":    {Singular: "invalid precision '{{.value}}' in '{{.token}}'"},
		"printf.missing_datetime":     {Singular: "date/time conversion '{{.token}}' has no suffix"},
		"printf.unknown_datetime":     {Singular: "unknown date/time suffix '{{.char}}' in '{{.token}}'"},
		"printf.no_previous":          {Singular: "'{{.token}}' reuses the previous argument but no argument precedes it, so formatting always fails"},
		"messageformat.unbalanced":    {Singular: "unbalanced brace '{{.char}}' at offset {{.offset}}"},
		"messageformat.nested":        {Singular: "nested braces are not allowed in '{{.token}}'"},
		"messageformat.invalid_index": {Singular: "argument index '{{.value}}' in '{{.token}}' is not a number"},
		"notation.unknown":            {Singular: "unknown format notation '{{.value}}'"},
		"count.mismatch": {
			Singular: "format requires {{.required}} argument but {{.actual}} supplied",
			Plural:   "format requires {{.required}} arguments but {{.actual}} supplied",
		},
		"translation.length":      {Singular: "'{{.translation}}' takes {{.translated}} arguments but '{{.base}}' takes {{.expected}}"},
		"translation.conversion":  {Singular: "argument {{.slot}} is '{{.expected}}' in '{{.base}}' but '{{.actual}}' in '{{.translation}}'"},
		"reconstruction.mismatch": {Singular: "tokens rebuild '{{.rebuilt}}' instead of '{{.original}}'"},
		"catalog.unknown_message": {Singular: "message '{{.id}}' has no {{.base}} counterpart"},
		"request.invalid":         {Singular: "invalid request: {{.reason}}"},
		"validation.required":     {Singular: "{{.field}} is required"},
		"validation.min":          {Singular: "{{.field}} must be at least {{.min}}"},
		"validation.max":          {Singular: "{{.field}} must be at most {{.max}}"},
		"validation.language":     {Singular: "{{.field}} '{{.value}}' is not a language tag"},
		"error.multiple":          {Singular: "multiple errors: {{.errors}}"},
	},
	language.Spanish: {
		"summary.valid":                            {Singular: "el formato es válido"},
		"summary.malformed_template":               {Singular: "el formato está mal construido"},
		"summary.argument_count_mismatch":          {Singular: "el número de argumentos del formato no coincide con la llamada"},
		"summary.translation_shape_mismatch":       {Singular: "los argumentos de la traducción no coinciden con el formato base"},
		"summary.internal_reconstruction_mismatch": {Singular: "falló la autocomprobación del analizador de formato"},
		"summary.internal":                         {Singular: "error interno al validar el formato"},
		"summary.unknown_message":                  {Singular: "la traducción no tiene mensaje base"},
		"summary.invalid_request":                  {Singular: "solicitud no válida"},

		"printf.unknown_conversion":   {Singular: "carácter de conversión desconocido '{{.char}}' en la posición {{.offset}}"},
		"printf.duplicate_flag":       {Singular: "el indicador '{{.flag}}' se repite en '{{.token}}'"},
		"printf.invalid_index":        {Singular: "índice de argumento no válido '{{.value}}' en '{{.token}}'"},
		"printf.invalid_width":        {Singular: "ancho no válido '{{.value}}' en '{{.token}}'"},
		"printf.invalid_precision":    {Singular: "precisión no válida '{{.value}}' en '{{.token}}'"},
		"printf.missing_datetime":     {Singular: "la conversión de fecha/hora '{{.token}}' no tiene sufijo"},
		"printf.unknown_datetime":     {Singular: "sufijo de fecha/hora desconocido '{{.char}}' en '{{.token}}'"},
		"printf.no_previous":          {Singular: "'{{.token}}' reutiliza el argumento anterior pero no hay ninguno, así que formatear siempre falla"},
		"messageformat.unbalanced":    {Singular: "llave '{{.char}}' sin pareja en la posición {{.offset}}"},
		"messageformat.nested":        {Singular: "no se permiten llaves anidadas en '{{.token}}'"},
		"messageformat.invalid_index": {Singular: "el índice de argumento '{{.value}}' en '{{.token}}' no es un número"},
		"notation.unknown":            {Singular: "notación de formato desconocida '{{.value}}'"},
		"count.mismatch": {
			Singular: "el formato requiere {{.required}} argumento pero se pasan {{.actual}}",
			Plural:   "el formato requiere {{.required}} argumentos pero se pasan {{.actual}}",
		},
		"translation.length":      {Singular: "'{{.translation}}' usa {{.translated}} argumentos pero '{{.base}}' usa {{.expected}}"},
		"translation.conversion":  {Singular: "el argumento {{.slot}} es '{{.expected}}' en '{{.base}}' pero '{{.actual}}' en '{{.translation}}'"},
		"reconstruction.mismatch": {Singular: "los tokens reconstruyen '{{.rebuilt}}' en lugar de '{{.original}}'"},
		"catalog.unknown_message": {Singular: "el mensaje '{{.id}}' no existe en {{.base}}"},
		"request.invalid":         {Singular: "solicitud no válida: {{.reason}}"},
		"validation.required":     {Singular: "{{.field}} es obligatorio"},
		"validation.min":          {Singular: "{{.field}} debe ser al menos {{.min}}"},
		"validation.max":          {Singular: "{{.field}} debe ser como máximo {{.max}}"},
		"validation.language":     {Singular: "{{.field}} '{{.value}}' no es una etiqueta de idioma"},
		"error.multiple":          {Singular: "varios errores: {{.errors}}"},
	},
}
