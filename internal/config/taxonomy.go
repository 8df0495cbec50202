package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// StyleRule binds a classifier marker to the paragraph style it materialises.
type StyleRule struct {
	Marker    string `yaml:"marker"`
	Name      string `yaml:"name"`
	WordStyle string `yaml:"word_style"`
	Prompt    string `yaml:"prompt"`
	Color     string `yaml:"color"`
}

type RemovalRule struct {
	Name        string `yaml:"name"`
	StartMarker string `yaml:"start_marker"`
	EndMarker   string `yaml:"end_marker"`
	Prompt      string `yaml:"prompt"`
}

type Taxonomy struct {
	Name     string        `yaml:"name"`
	Styles   []StyleRule   `yaml:"styles"`
	Removals []RemovalRule `yaml:"removals"`
}

var hexColor = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$`)

func LoadTaxonomy(path string) (Taxonomy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Taxonomy{}, fmt.Errorf("falha ao ler taxonomia (%s): %w", path, err)
	}
	return ParseTaxonomy(raw)
}

func DefaultTaxonomy() Taxonomy {
	t, err := ParseTaxonomy(embeddedTaxonomy)
	if err != nil {
		panic(fmt.Sprintf("taxonomia padrão inválida: %v", err))
	}
	return t
}

func ParseTaxonomy(raw []byte) (Taxonomy, error) {
	var t Taxonomy
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return Taxonomy{}, fmt.Errorf("taxonomia inválida: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Taxonomy{}, err
	}
	return t, nil
}

// Validate checks required fields, colour format and that every marker is
// unique across style markers and removal start/end markers.
func (t Taxonomy) Validate() error {
	if len(t.Styles) == 0 {
		return fmt.Errorf("taxonomia sem estilos")
	}
	seen := map[string]string{}
	claim := func(marker, owner string) error {
		marker = strings.TrimSpace(marker)
		if marker == "" {
			return fmt.Errorf("%s: marcador vazio", owner)
		}
		if prev, ok := seen[marker]; ok {
			return fmt.Errorf("marcador duplicado %s (%s e %s)", marker, prev, owner)
		}
		seen[marker] = owner
		return nil
	}
	for i, s := range t.Styles {
		owner := fmt.Sprintf("estilo #%d %q", i+1, s.Name)
		if err := claim(s.Marker, owner); err != nil {
			return err
		}
		if strings.TrimSpace(s.WordStyle) == "" {
			return fmt.Errorf("%s: word_style obrigatório", owner)
		}
		if strings.TrimSpace(s.Prompt) == "" {
			return fmt.Errorf("%s: prompt obrigatório", owner)
		}
		if s.Color != "" && !ValidColor(s.Color) {
			return fmt.Errorf("%s: cor inválida %q", owner, s.Color)
		}
	}
	for i, r := range t.Removals {
		owner := fmt.Sprintf("remoção #%d %q", i+1, r.Name)
		if err := claim(r.StartMarker, owner); err != nil {
			return err
		}
		if err := claim(r.EndMarker, owner); err != nil {
			return err
		}
	}
	return nil
}

func ValidColor(c string) bool {
	return hexColor.MatchString(strings.TrimSpace(c))
}

// Markers returns every marker the classifier may answer with.
func (t Taxonomy) Markers() map[string]struct{} {
	out := make(map[string]struct{}, len(t.Styles)+2*len(t.Removals))
	for _, s := range t.Styles {
		out[s.Marker] = struct{}{}
	}
	for _, r := range t.Removals {
		out[r.StartMarker] = struct{}{}
		out[r.EndMarker] = struct{}{}
	}
	return out
}

func (t Taxonomy) StyleFor(marker string) (StyleRule, bool) {
	for _, s := range t.Styles {
		if s.Marker == marker {
			return s, true
		}
	}
	return StyleRule{}, false
}
