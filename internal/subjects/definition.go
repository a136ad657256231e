package subjects

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/grade-calculator/internal/grading"
	"github.com/jonathan/grade-calculator/internal/schemas"
	"github.com/jonathan/grade-calculator/internal/types"
	rootschemas "github.com/jonathan/grade-calculator/schemas"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a definition file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported definition file extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// Definition is a user-supplied calculator layout loaded from a file.
type Definition struct {
	Name       string           `json:"name"`
	Slug       string           `json:"slug"`
	Linear     bool             `json:"linear,omitempty"`
	Categories []types.Category `json:"categories"`
}

// Subject converts the definition into a Subject.
func (d Definition) Subject() Subject {
	return Subject{Name: d.Name, Slug: d.Slug, Categories: types.CloneCategories(d.Categories)}
}

// Evaluate computes the report for the definition's own scores. linear forces the
// linear GPA policy even when the file does not ask for it.
func (d Definition) Evaluate(linear bool) types.Report {
	return grading.Evaluate(d.Categories, d.Linear || linear)
}

type fileItem struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Score  types.Text `json:"score"`
	Weight float64    `json:"weight"`
}

type fileCategory struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	TotalWeight float64    `json:"total_weight"`
	Items       []fileItem `json:"items"`
}

type fileDefinition struct {
	Name       string         `json:"name"`
	Slug       string         `json:"slug"`
	Linear     bool           `json:"linear"`
	Categories []fileCategory `json:"categories"`
}

// LoadDefinition reads, validates and decodes a definition file.
func LoadDefinition(path string) (Definition, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Definition{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("failed to read definition %s: %w", path, err)
	}
	def, err := ParseDefinition(data, format)
	if err != nil {
		return Definition{}, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// ParseDefinition decodes a definition in the given format. The document is checked
// against the calculator schema before it is decoded.
func ParseDefinition(data []byte, format Format) (Definition, error) {
	jsonData := data
	if format == FormatYAML {
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return Definition{}, fmt.Errorf("failed to parse YAML: %w", err)
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return Definition{}, fmt.Errorf("failed to convert YAML to JSON: %w", err)
		}
		jsonData = converted
	}

	if err := schemas.ValidateEmbedded(rootschemas.Calculator, jsonData); err != nil {
		return Definition{}, err
	}

	var raw fileDefinition
	if err := json.Unmarshal(jsonData, &raw); err != nil {
		return Definition{}, fmt.Errorf("failed to decode definition: %w", err)
	}
	return raw.toDefinition()
}

func (f fileDefinition) toDefinition() (Definition, error) {
	def := Definition{
		Name:       strings.TrimSpace(f.Name),
		Slug:       f.Slug,
		Linear:     f.Linear,
		Categories: make([]types.Category, 0, len(f.Categories)),
	}
	if def.Slug == "" {
		def.Slug = Slugify(def.Name)
	}

	seenCategories := make(map[string]bool)
	for _, fc := range f.Categories {
		c := types.Category{
			ID:          fc.ID,
			Name:        fc.Name,
			TotalWeight: fc.TotalWeight,
			Items:       make([]types.Item, 0, len(fc.Items)),
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if seenCategories[c.ID] {
			return Definition{}, fmt.Errorf("duplicate category id %q", c.ID)
		}
		seenCategories[c.ID] = true

		seenItems := make(map[string]bool)
		for _, fi := range fc.Items {
			it := types.Item{ID: fi.ID, Name: fi.Name, Score: string(fi.Score), Weight: fi.Weight}
			if it.ID == "" {
				it.ID = uuid.NewString()
			}
			if seenItems[it.ID] {
				return Definition{}, fmt.Errorf("duplicate item id %q in category %q", it.ID, c.ID)
			}
			seenItems[it.ID] = true
			c.Items = append(c.Items, it)
		}
		def.Categories = append(def.Categories, c)
	}
	return def, nil
}

// Slugify lowercases name and joins its alphanumeric runs with dashes.
func Slugify(name string) string {
	var sb strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(name) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pendingDash = sb.Len() > 0
			continue
		}
		if pendingDash {
			sb.WriteByte('-')
			pendingDash = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// ParseScoreFlag splits an "id=value" pair as used on the command line.
func ParseScoreFlag(pair string) (string, string, error) {
	id, value, ok := strings.Cut(pair, "=")
	id = strings.TrimSpace(id)
	if !ok || id == "" {
		return "", "", fmt.Errorf("invalid score %q, expected id=value", pair)
	}
	return id, value, nil
}
