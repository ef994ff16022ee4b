package aria

import (
	"context"
	"testing"
)

func validate(t *testing.T, attrs map[string]string) *ValidationResult {
	t.Helper()
	r, err := Validate(context.Background(), &fakeNode{attrs: attrs})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return r
}

func TestValidateSliderRequiredAttributes(t *testing.T) {
	r := validate(t, map[string]string{"role": "slider"})

	if r.Valid {
		t.Error("slider without value attributes reported valid")
	}
	if len(r.Issues) != 3 {
		t.Fatalf("issues: got %d, want 3: %v", len(r.Issues), r.Issues)
	}
	seen := map[string]bool{}
	for _, i := range r.Issues {
		if i.Kind != IssueMissingAttribute {
			t.Errorf("issue kind: got %v", i.Kind)
		}
		if i.Role != "slider" {
			t.Errorf("issue role: got %q", i.Role)
		}
		seen[i.Attr] = true
	}
	if !seen["aria-valuenow"] || !seen["aria-valuemin"] || !seen["aria-valuemax"] {
		t.Errorf("missing attrs reported: %v", seen)
	}

	complete := validate(t, map[string]string{
		"role":          "slider",
		"aria-valuemin": "0",
		"aria-valuemax": "100",
		"aria-valuenow": "40",
	})
	if !complete.Valid || complete.Score != 100 || len(complete.Issues) != 0 {
		t.Errorf("complete slider: valid=%v score=%d issues=%v",
			complete.Valid, complete.Score, complete.Issues)
	}
}

func TestValidateRoleTable(t *testing.T) {
	tests := []struct {
		role        string
		missingAttr string
	}{
		{"tab", "aria-selected"},
		{"tabpanel", "aria-labelledby"},
		{"dialog", "aria-labelledby"},
		{"checkbox", "aria-checked"},
		{"combobox", "aria-expanded"},
		{"heading", "aria-level"},
		{"scrollbar", "aria-controls"},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			r := validate(t, map[string]string{"role": tt.role})
			found := false
			for _, i := range r.Issues {
				if i.Kind == IssueMissingAttribute && i.Attr == tt.missingAttr {
					found = true
				}
			}
			if !found {
				t.Errorf("role %q: no missing issue for %s in %v", tt.role, tt.missingAttr, r.Issues)
			}
		})
	}
}

func TestValidateUnknownRoleHasNoRequirements(t *testing.T) {
	r := validate(t, map[string]string{"role": "button"})
	if !r.Valid || r.Score != 100 {
		t.Errorf("plain button: valid=%v score=%d issues=%v", r.Valid, r.Score, r.Issues)
	}
}

func TestValidateEnumeratedValues(t *testing.T) {
	tests := []struct {
		name  string
		attrs map[string]string
		valid bool
	}{
		{"valid boolean", map[string]string{"aria-hidden": "true"}, true},
		{"case-insensitive value", map[string]string{"aria-hidden": "TRUE"}, true},
		{"invalid boolean", map[string]string{"aria-hidden": "maybe"}, false},
		{"tri-state mixed", map[string]string{"role": "checkbox", "aria-checked": "mixed"}, true},
		{"bad politeness", map[string]string{"aria-live": "loud"}, false},
		{"valid sort", map[string]string{"aria-sort": "descending"}, true},
		{"bad sort", map[string]string{"aria-sort": "sideways"}, false},
		{"free-text attr never flagged", map[string]string{"aria-label": "anything goes"}, true},
		{"id-list attr never flagged", map[string]string{"aria-labelledby": "a b c"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validate(t, tt.attrs)
			if r.Valid != tt.valid {
				t.Errorf("valid: got %v, want %v (issues %v)", r.Valid, tt.valid, r.Issues)
			}
		})
	}
}

func TestValidateInvalidValueIssueShape(t *testing.T) {
	r := validate(t, map[string]string{"aria-expanded": "kinda"})

	if len(r.Issues) != 1 {
		t.Fatalf("issues: got %d, want 1", len(r.Issues))
	}
	i := r.Issues[0]
	if i.Kind != IssueInvalidValue || i.Attr != "aria-expanded" || i.Value != "kinda" {
		t.Errorf("issue: %+v", i)
	}
	if len(i.Allowed) != 2 {
		t.Errorf("Allowed: got %v", i.Allowed)
	}
	if i.String() == "" {
		t.Error("String: empty")
	}
}

func TestValidateScoring(t *testing.T) {
	// Three issues at the default penalty of 20 leave a score of 40.
	r := validate(t, map[string]string{"role": "slider"})
	if r.Score != 40 {
		t.Errorf("Score: got %d, want 40", r.Score)
	}

	// Scores floor at zero.
	floor := validate(t, map[string]string{
		"role":          "slider", // 3 missing
		"aria-hidden":   "maybe",  // invalid
		"aria-live":     "loud",   // invalid
		"aria-expanded": "kinda",  // invalid
	})
	if floor.Score != 0 {
		t.Errorf("floored Score: got %d, want 0", floor.Score)
	}

	// Custom penalty.
	custom, err := ValidateWith(context.Background(),
		&fakeNode{attrs: map[string]string{"aria-hidden": "maybe"}},
		ValidatorConfig{IssuePenalty: 5})
	if err != nil {
		t.Fatalf("ValidateWith: %v", err)
	}
	if custom.Score != 95 {
		t.Errorf("custom penalty Score: got %d, want 95", custom.Score)
	}
}
