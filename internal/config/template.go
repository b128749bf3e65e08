package config

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// FillPlaceholders resolves the optional template preamble of a plan file.
// A file may open with a variables document separated from the body by
// "---"; placeholders like {{.salary}} in the body are substituted from it.
// Files without a separator pass through untouched.
func FillPlaceholders(text string) (string, error) {
	if !strings.Contains(text, "---") {
		return text, nil
	}
	parts := strings.SplitN(text, "---", 2)

	vars := map[string]any{}
	if err := yaml.Unmarshal([]byte(parts[0]), &vars); err != nil {
		return "", fmt.Errorf("failed to parse template variables: %w", err)
	}

	tmpl, err := template.New("plan").Option("missingkey=error").Parse(parts[1])
	if err != nil {
		return "", fmt.Errorf("failed to parse plan template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("failed to fill plan placeholders: %w", err)
	}
	return buf.String(), nil
}
