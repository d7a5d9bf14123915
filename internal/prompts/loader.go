// Package prompts holds the AI prompt templates used by the llm package.
// They live in cv.json, embedded at compile time, keyed by prompt name.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

//go:embed cv.json
var files embed.FS

// Name identifies one prompt in cv.json.
type Name string

const (
	TailorCV  Name = "tailor-cv"
	AnalyzeCV Name = "analyze-cv"
)

var placeholderRe = regexp.MustCompile(`\{\{\.(\w+)\}\}`)

var load = sync.OnceValues(func() (map[Name]string, error) {
	data, err := files.ReadFile("cv.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts: %w", err)
	}
	var set map[Name]string
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse prompts: %w", err)
	}
	return set, nil
})

// Render fills the {{.Field}} placeholders of the named prompt from data.
// Every placeholder must have a value. Substitution is a single pass, so
// CV text that happens to contain "{{.Text}}" is left alone.
func Render(name Name, data map[string]string) (string, error) {
	set, err := load()
	if err != nil {
		return "", err
	}
	tmpl, ok := set[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", name)
	}

	var pairs []string
	for _, m := range placeholderRe.FindAllStringSubmatch(tmpl, -1) {
		value, ok := data[m[1]]
		if !ok {
			return "", fmt.Errorf("prompt %q: no value for %s", name, m[1])
		}
		pairs = append(pairs, m[0], value)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl), nil
}
