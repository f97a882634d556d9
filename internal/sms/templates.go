package sms

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Templates holds the outbound message texts, loaded once at startup from a
// yaml file. Placeholders use {name} syntax.
type Templates struct {
	messages map[string]string
}

var defaultTemplates = map[string]string{
	"need_received":     "Got it. We're searching for {city} warehouse space now and will text you the best matches shortly.",
	"need_parse_failed": "Sorry, we couldn't read that. Try: NEED 5000-10000 sqft storage in Austin, TX for 12 months.",
	"unknown_sender":    "We don't recognize this number. Sign up at the marketplace first, then text us your space need.",
	"matches_ready":     "We found {count} matching spaces for your {city} need. Log in to review them.",
}

// LoadTemplates reads the template file, falling back to built-in texts for
// any key the file does not define. A missing file is not an error.
func LoadTemplates(path string) (*Templates, error) {
	messages := make(map[string]string, len(defaultTemplates))
	for k, v := range defaultTemplates {
		messages[k] = v
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Templates{messages: messages}, nil
		}
		return nil, fmt.Errorf("sms: read template file: %w", err)
	}

	var fromFile map[string]string
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return nil, fmt.Errorf("sms: parse template file: %w", err)
	}
	for k, v := range fromFile {
		messages[k] = v
	}

	return &Templates{messages: messages}, nil
}

// Render fills a named template with the given placeholder values.
func (t *Templates) Render(name string, vars map[string]string) (string, error) {
	tmpl, ok := t.messages[name]
	if !ok {
		return "", fmt.Errorf("sms: unknown template %q", name)
	}

	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl), nil
}
