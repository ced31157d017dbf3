package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Snippet is a reusable case description stored as a YAML file in the
// snippets directory. Snippets are inserted into the chat input by name.
type Snippet struct {
	// Name is the identifier used in the chat loop. Defaults to the file
	// name without extension.
	Name string `yaml:"name"`
	// Description is an optional one-line summary shown in completions.
	Description string `yaml:"description,omitempty"`
	// Text is the case description sent as the message.
	Text string `yaml:"text"`
}

// LoadSnippets reads all *.yaml / *.yml files in dir and returns the parsed
// snippets sorted by name. A missing directory yields an empty list.
func LoadSnippets(dir string) ([]Snippet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snippets dir %s: %w", dir, err)
	}

	var snippets []Snippet
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read snippet %s: %w", entry.Name(), err)
		}

		var s Snippet
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parse snippet %s: %w", entry.Name(), err)
		}
		if s.Text == "" {
			continue
		}
		if s.Name == "" {
			s.Name = strings.TrimSuffix(entry.Name(), ext)
		}
		snippets = append(snippets, s)
	}

	sort.Slice(snippets, func(i, j int) bool { return snippets[i].Name < snippets[j].Name })
	return snippets, nil
}

// FindSnippet returns the snippet with the given name, if present.
func FindSnippet(snippets []Snippet, name string) (Snippet, bool) {
	for _, s := range snippets {
		if s.Name == name {
			return s, true
		}
	}
	return Snippet{}, false
}
