// Package i18n holds the message translations used to render diagnostics.
//
// Messages are text/template strings keyed by language and message key.
// Lookups walk the language parent chain (es-MX, es-419, es) before falling
// back to the manager's default language, so a regional tag resolves to
// the closest registered translation.
package i18n

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/text/language"
)

// Translation represents a single translation entry with optional plural form
type Translation struct {
	Singular string // Template string for singular form
	Plural   string // Template string for plural form (optional)
}

// Manager stores translations per language and renders them.
type Manager struct {
	mu              sync.RWMutex
	translations    map[language.Tag]map[string]*Translation
	defaultLanguage language.Tag

	cacheMu       sync.Mutex
	templateCache map[string]*template.Template
}

// NewManager creates an empty manager falling back to defaultLanguage.
func NewManager(defaultLanguage language.Tag) *Manager {
	return &Manager{
		translations:    make(map[language.Tag]map[string]*Translation),
		defaultLanguage: defaultLanguage,
		templateCache:   make(map[string]*template.Template),
	}
}

// AddTranslations adds multiple translations for the specified language at once
// under a single lock acquisition. Nothing is added if any entry is invalid.
func (m *Manager) AddTranslations(lang language.Tag, translations map[string]*Translation) error {
	if len(translations) == 0 {
		return fmt.Errorf("translations map cannot be empty")
	}

	for key, translation := range translations {
		if key == "" {
			return fmt.Errorf("translation key cannot be empty")
		}
		if translation == nil {
			return fmt.Errorf("translation cannot be nil for key '%s'", key)
		}
		if translation.Singular == "" {
			return fmt.Errorf("translation value cannot be empty for key '%s'", key)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for key, translation := range translations {
		m.put(lang, key, translation)
	}
	return nil
}

// put stores a copy of t; m.mu must be held for writing.
func (m *Manager) put(lang language.Tag, key string, t *Translation) {
	if m.translations[lang] == nil {
		m.translations[lang] = make(map[string]*Translation)
	}
	plural := t.Plural
	if plural == "" {
		plural = t.Singular
	}
	m.translations[lang][key] = &Translation{Singular: t.Singular, Plural: plural}
}

// lookup walks lang's parent chain and then the default language; m.mu
// must be held.
func (m *Manager) lookup(lang language.Tag, key string) (*Translation, bool) {
	for tag := lang; ; tag = tag.Parent() {
		if langMap, exists := m.translations[tag]; exists {
			if translation, exists := langMap[key]; exists {
				return translation, true
			}
		}
		if tag == language.Und {
			break
		}
	}

	if langMap, exists := m.translations[m.defaultLanguage]; exists {
		if translation, exists := langMap[key]; exists {
			return translation, true
		}
	}
	return nil, false
}

// getTemplate returns a cached template or parses and caches a new one
func (m *Manager) getTemplate(templateStr string) (*template.Template, error) {
	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()

	if tmpl, exists := m.templateCache[templateStr]; exists {
		return tmpl, nil
	}

	tmpl, err := template.New("").Option("missingkey=error").Parse(templateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	m.templateCache[templateStr] = tmpl
	return tmpl, nil
}

// executeTemplate executes a template with the given data
func (m *Manager) executeTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := m.getTemplate(templateStr)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// Translate retrieves and processes a translation for the given language and key
// count determines whether to use singular (count == 1) or plural (count != 1) form
// data is passed to the template for processing
// The key itself is returned when no translation exists.
func (m *Manager) Translate(lang language.Tag, key string, count int, data interface{}) string {
	m.mu.RLock()
	translation, ok := m.lookup(lang, key)
	m.mu.RUnlock()

	if !ok {
		return key
	}
	return m.processTranslation(translation, count, data)
}

// processTranslation processes a translation entry with the given count and data
func (m *Manager) processTranslation(translation *Translation, count int, data interface{}) string {
	templateStr := translation.Plural
	if count == 1 {
		templateStr = translation.Singular
	}

	if data == nil {
		return templateStr
	}

	result, err := m.executeTemplate(templateStr, data)
	if err != nil {
		return templateStr
	}
	return result
}

// Keys returns the sorted message keys registered for lang, without
// fallback.
func (m *Manager) Keys(lang language.Tag) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.translations[lang]))
	for key := range m.translations[lang] {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
