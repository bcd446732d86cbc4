package menu

import (
	_ "embed"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sahanw/restopos/internal/model"
)

//go:embed aliases.yaml
var aliasesYAML []byte

type subcategory struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

// canonical maps category -> lowercased name or alias -> canonical name.
var canonical = map[model.Category]map[string]string{}

func init() {
	var raw map[string][]subcategory
	if err := yaml.Unmarshal(aliasesYAML, &raw); err != nil {
		panic("menu: bad embedded alias table: " + err.Error())
	}
	for cat, subs := range raw {
		m := make(map[string]string)
		for _, s := range subs {
			m[strings.ToLower(s.Name)] = s.Name
			for _, a := range s.Aliases {
				m[strings.ToLower(a)] = s.Name
			}
		}
		canonical[model.Category(cat)] = m
	}
}

// NormalizeSubcategory maps user-entered subcategory labels onto the fixed
// canonical set, matching case-insensitively against names and known
// aliases. Unrecognized labels pass through trimmed, so free-form entries
// are kept rather than rejected.
func NormalizeSubcategory(cat model.Category, s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	if m, ok := canonical[cat]; ok {
		if name, ok := m[strings.ToLower(trimmed)]; ok {
			return name
		}
	}
	return trimmed
}
