// Package fixtures seeds the in-memory stores at startup.
package fixtures

import (
	_ "embed"
	"fmt"

	"mlm_sales_backend/internal/templates/repository"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var templatesYAML []byte

// Templates returns the built-in message templates.
func Templates() ([]repository.Template, error) {
	return ParseTemplates(templatesYAML)
}

// ParseTemplates decodes a YAML list of templates. Ids must be unique and positive.
func ParseTemplates(raw []byte) ([]repository.Template, error) {
	var out []repository.Template
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode templates: %w", err)
	}
	seen := make(map[int]bool, len(out))
	for _, t := range out {
		if t.ID <= 0 {
			return nil, fmt.Errorf("template %q: id must be positive", t.Name)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("template %q: duplicate id %d", t.Name, t.ID)
		}
		seen[t.ID] = true
	}
	return out, nil
}
