// Package catalog loads translation catalogs in go-i18n message file format
// and checks every translated template against its base-language message.
package catalog

import (
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Catalog holds the messages of one base language and its translations,
// keyed by language and message id.
type Catalog struct {
	base     language.Tag
	bundle   *i18n.Bundle
	messages map[language.Tag]map[string]*i18n.Message
}

// New creates an empty catalog for the given base language.
func New(base language.Tag) *Catalog {
	bundle := i18n.NewBundle(base)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
	bundle.RegisterUnmarshalFunc("yml", yaml.Unmarshal)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	return &Catalog{
		base:     base,
		bundle:   bundle,
		messages: make(map[language.Tag]map[string]*i18n.Message),
	}
}

// Load reads message files from fsys. Paths are read in sorted order and the
// language of each file is taken from its name (es.yaml, active.fr.toml).
func Load(base language.Tag, fsys fs.FS, paths ...string) (*Catalog, error) {
	c := New(base)
	for _, path := range sortedPaths(paths) {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if err := c.AddFile(data, path); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// LoadFiles reads message files from the local filesystem.
func LoadFiles(base language.Tag, paths ...string) (*Catalog, error) {
	c := New(base)
	for _, path := range sortedPaths(paths) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if err := c.AddFile(data, path); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// AddFile parses one message file. The path's extension selects the
// format (json, yaml, yml, toml) and its name carries the language. A
// message id repeated for a language replaces the earlier message.
func (c *Catalog) AddFile(data []byte, path string) error {
	file, err := c.bundle.ParseMessageFileBytes(data, path)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	c.Add(file.Tag, file.Messages...)
	return nil
}

// Add registers messages for tag.
func (c *Catalog) Add(tag language.Tag, messages ...*i18n.Message) {
	table, ok := c.messages[tag]
	if !ok {
		table = make(map[string]*i18n.Message)
		c.messages[tag] = table
	}
	for _, m := range messages {
		if m != nil && m.ID != "" {
			table[m.ID] = m
		}
	}
}

// Base returns the base language.
func (c *Catalog) Base() language.Tag {
	return c.base
}

// Languages returns the languages with at least one message, base first and
// the rest sorted by tag.
func (c *Catalog) Languages() []language.Tag {
	tags := make([]language.Tag, 0, len(c.messages))
	for tag := range c.messages {
		if tag != c.base {
			tags = append(tags, tag)
		}
	}
	slices.SortFunc(tags, func(a, b language.Tag) int {
		return strings.Compare(a.String(), b.String())
	})
	if _, ok := c.messages[c.base]; ok {
		tags = append([]language.Tag{c.base}, tags...)
	}
	return tags
}

// IDs returns the message ids of tag in sorted order.
func (c *Catalog) IDs(tag language.Tag) []string {
	ids := make([]string, 0, len(c.messages[tag]))
	for id := range c.messages[tag] {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Message returns the message id in tag.
func (c *Catalog) Message(tag language.Tag, id string) (*i18n.Message, bool) {
	m, ok := c.messages[tag][id]
	return m, ok
}

// Size returns the number of messages across all languages.
func (c *Catalog) Size() int {
	n := 0
	for _, table := range c.messages {
		n += len(table)
	}
	return n
}

func sortedPaths(paths []string) []string {
	sorted := slices.Clone(paths)
	slices.Sort(sorted)
	return sorted
}
