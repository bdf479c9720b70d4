package config

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-catalogform/pkg/plugin"
	"github.com/goliatone/go-catalogform/pkg/schema"
)

// LoadDeclarative walks fsys and builds a declarative plugin for every entry
// of every JSON/YAML document, in lexical file order. A nil fsys yields no
// plugins. Plugin names must be unique across files.
func LoadDeclarative(fsys fs.FS) ([]*plugin.Declarative, error) {
	if fsys == nil {
		return nil, nil
	}

	var out []*plugin.Declarative
	seen := make(map[string]string)

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isPluginFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("config: read %s: %w", path, err)
		}

		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for idx, raw := range doc.Plugins {
			name := strings.TrimSpace(raw.Name)
			if name == "" {
				return fmt.Errorf("config: file %s plugin %d has an empty name", path, idx)
			}
			if previous, exists := seen[name]; exists {
				return fmt.Errorf("config: duplicate plugin %q (files %s and %s)", name, previous, path)
			}
			if raw.Schema == nil {
				return fmt.Errorf("config: file %s plugin %q has no schema", path, name)
			}
			p, err := plugin.NewDeclarative(name, raw.Schema, trimKeys(raw.Keys)...)
			if err != nil {
				return fmt.Errorf("config: file %s plugin %q: %w", path, name, err)
			}
			seen[name] = path
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Specs converts declarative plugins into spec list entries.
func Specs(plugins []*plugin.Declarative) []plugin.Spec {
	out := make([]plugin.Spec, 0, len(plugins))
	for _, p := range plugins {
		out = append(out, p)
	}
	return out
}

type documentFile struct {
	Plugins []pluginFile `yaml:"plugins"`
}

type pluginFile struct {
	Name   string        `yaml:"name"`
	Keys   []string      `yaml:"keys"`
	Schema *schema.Field `yaml:"schema"`
}

// parseDocument accepts JSON or YAML; JSON documents are valid YAML.
func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("config: file %s is empty", source)
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("config: parse %s: %w", source, err)
	}
	return doc, nil
}

func trimKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func isPluginFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
