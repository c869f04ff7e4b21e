package tools

import (
	"fmt"
	"sort"
	"strings"
)

// Formula is one record in the static lookup table.
type Formula struct {
	Formula     string            `json:"formula"`
	Description string            `json:"description"`
	Variables   map[string]string `json:"variables"`
}

// Suggestion is one candidate offered when a lookup is ambiguous.
type Suggestion struct {
	Key         string `json:"key"`
	Description string `json:"description"`
}

// Disambiguation is returned when a fuzzy lookup matches several formulas.
// The caller is expected to re-prompt or pick the first candidate.
type Disambiguation struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// FormulaLookup resolves common math and physics formulas by name or
// concept. The table is immutable after construction.
type FormulaLookup struct {
	formulas map[string]Formula
}

func NewFormulaLookup() *FormulaLookup {
	return &FormulaLookup{formulas: map[string]Formula{
		"quadratic_formula": {
			Formula:     "x = (-b ± √(b² - 4ac)) / (2a)",
			Description: "Solve quadratic equations of the form ax² + bx + c = 0",
			Variables:   map[string]string{"a": "coefficient of x²", "b": "coefficient of x", "c": "constant term"},
		},
		"area_circle": {
			Formula:     "A = πr²",
			Description: "Area of a circle",
			Variables:   map[string]string{"A": "area", "r": "radius", "π": "pi (≈3.14159)"},
		},
		"area_triangle": {
			Formula:     "A = ½bh",
			Description: "Area of a triangle",
			Variables:   map[string]string{"A": "area", "b": "base", "h": "height"},
		},
		"pythagorean_theorem": {
			Formula:     "a² + b² = c²",
			Description: "Relationship between sides of a right triangle",
			Variables:   map[string]string{"a": "first leg", "b": "second leg", "c": "hypotenuse"},
		},
		"kinematic_position": {
			Formula:     "x = x₀ + v₀t + ½at²",
			Description: "Position as a function of time with constant acceleration",
			Variables:   map[string]string{"x": "final position", "x₀": "initial position", "v₀": "initial velocity", "t": "time", "a": "acceleration"},
		},
		"kinematic_velocity": {
			Formula:     "v = v₀ + at",
			Description: "Velocity as a function of time with constant acceleration",
			Variables:   map[string]string{"v": "final velocity", "v₀": "initial velocity", "a": "acceleration", "t": "time"},
		},
		"force": {
			Formula:     "F = ma",
			Description: "Newton's second law of motion",
			Variables:   map[string]string{"F": "force (N)", "m": "mass (kg)", "a": "acceleration (m/s²)"},
		},
		"kinetic_energy": {
			Formula:     "KE = ½mv²",
			Description: "Kinetic energy of a moving object",
			Variables:   map[string]string{"KE": "kinetic energy (J)", "m": "mass (kg)", "v": "velocity (m/s)"},
		},
		"potential_energy": {
			Formula:     "PE = mgh",
			Description: "Gravitational potential energy",
			Variables:   map[string]string{"PE": "potential energy (J)", "m": "mass (kg)", "g": "acceleration due to gravity (9.8 m/s²)", "h": "height (m)"},
		},
		"ohms_law": {
			Formula:     "V = IR",
			Description: "Relationship between voltage, current, and resistance",
			Variables:   map[string]string{"V": "voltage (V)", "I": "current (A)", "R": "resistance (Ω)"},
		},
	}}
}

func (f *FormulaLookup) Name() string { return "formula_lookup" }

func (f *FormulaLookup) Description() string {
	return "Look up common mathematical and physics formulas by name or concept"
}

func (f *FormulaLookup) Spec() Spec {
	return Spec{
		Name:        f.Name(),
		Description: f.Description(),
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Formula name or concept to look up (e.g., 'quadratic formula', 'area of circle', 'force', 'kinetic energy')",
				},
			},
			"required": []any{"query"},
		},
	}
}

func (f *FormulaLookup) Invoke(args map[string]any) (Result, error) {
	query, ok := stringArg(args, "query")
	if !ok {
		return Result{}, fmt.Errorf("%w: missing 'query' argument", ErrParse)
	}
	query = strings.ToLower(strings.TrimSpace(query))

	if record, ok := f.formulas[query]; ok {
		return Result{
			Value:    record,
			Metadata: map[string]any{"query": query, "lookup_type": "direct"},
		}, nil
	}

	matches := f.fuzzySearch(query)
	switch len(matches) {
	case 0:
		return Result{}, fmt.Errorf("%w: no formula found for %q. Try keywords like 'quadratic', 'circle', 'force', 'energy'", ErrNotFound, query)
	case 1:
		return Result{
			Value:    f.formulas[matches[0]],
			Metadata: map[string]any{"query": query, "lookup_type": "fuzzy", "matched_key": matches[0]},
		}, nil
	default:
		suggestions := make([]Suggestion, 0, len(matches))
		for _, key := range matches {
			suggestions = append(suggestions, Suggestion{Key: key, Description: f.formulas[key].Description})
		}
		return Result{
			Value:    Disambiguation{Suggestions: suggestions},
			Metadata: map[string]any{"query": query, "lookup_type": "multiple_matches"},
		}, nil
	}
}

// fuzzySearch returns, in stable key order, every formula whose key or
// description contains any word of the query.
func (f *FormulaLookup) fuzzySearch(query string) []string {
	words := strings.Fields(query)
	if len(words) == 0 {
		return nil
	}

	var matches []string
	for key, record := range f.formulas {
		haystack := strings.ToLower(key + " " + record.Description)
		for _, word := range words {
			if strings.Contains(haystack, word) {
				matches = append(matches, key)
				break
			}
		}
	}
	sort.Strings(matches)
	return matches
}

// All exposes the full table for the listing endpoint.
func (f *FormulaLookup) All() map[string]Formula {
	out := make(map[string]Formula, len(f.formulas))
	for k, v := range f.formulas {
		out[k] = v
	}
	return out
}
