package aria

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// requiredByRole maps a role to the companion attributes it cannot function
// without.
var requiredByRole = map[string][]string{
	"slider":           {"aria-valuenow", "aria-valuemin", "aria-valuemax"},
	"progressbar":      {"aria-valuenow", "aria-valuemin", "aria-valuemax"},
	"spinbutton":       {"aria-valuenow"},
	"scrollbar":        {"aria-controls", "aria-valuenow"},
	"checkbox":         {"aria-checked"},
	"radio":            {"aria-checked"},
	"switch":           {"aria-checked"},
	"menuitemcheckbox": {"aria-checked"},
	"menuitemradio":    {"aria-checked"},
	"combobox":         {"aria-expanded"},
	"tab":              {"aria-selected"},
	"option":           {"aria-selected"},
	"tabpanel":         {"aria-labelledby"},
	"dialog":           {"aria-labelledby"},
	"alertdialog":      {"aria-labelledby"},
	"heading":          {"aria-level"},
}

// allowedValues maps each aria attribute with an enumerated value space to
// its valid literals. Attributes taking ids, numbers, free text, or token
// lists are absent and never flagged.
var allowedValues = map[string][]string{
	"aria-atomic":          {"true", "false"},
	"aria-autocomplete":    {"none", "inline", "list", "both"},
	"aria-busy":            {"true", "false"},
	"aria-checked":         {"true", "false", "mixed"},
	"aria-current":         {"page", "step", "location", "date", "time", "true", "false"},
	"aria-disabled":        {"true", "false"},
	"aria-expanded":        {"true", "false"},
	"aria-haspopup":        {"false", "true", "menu", "listbox", "tree", "grid", "dialog"},
	"aria-hidden":          {"true", "false"},
	"aria-invalid":         {"false", "true", "grammar", "spelling"},
	"aria-live":            {"off", "polite", "assertive"},
	"aria-modal":           {"true", "false"},
	"aria-multiline":       {"true", "false"},
	"aria-multiselectable": {"true", "false"},
	"aria-orientation":     {"horizontal", "vertical", "undefined"},
	"aria-pressed":         {"true", "false", "mixed"},
	"aria-readonly":        {"true", "false"},
	"aria-required":        {"true", "false"},
	"aria-selected":        {"true", "false"},
	"aria-sort":            {"none", "ascending", "descending", "other"},
}

// IssueKind classifies a validation finding.
type IssueKind string

const (
	IssueMissingAttribute IssueKind = "missing-required-attribute"
	IssueInvalidValue     IssueKind = "invalid-attribute-value"
)

// Issue is one structural problem found on an element.
type Issue struct {
	Kind    IssueKind
	Role    string   // role requiring the attribute, for missing-attribute issues
	Attr    string   // attribute at fault
	Value   string   // offending value, for invalid-value issues
	Allowed []string // valid literals, for invalid-value issues
}

func (i Issue) String() string {
	switch i.Kind {
	case IssueMissingAttribute:
		return fmt.Sprintf("role %q requires %s", i.Role, i.Attr)
	case IssueInvalidValue:
		return fmt.Sprintf("%s=%q is not one of %s", i.Attr, i.Value, strings.Join(i.Allowed, ", "))
	default:
		return string(i.Kind)
	}
}

// ValidationResult is the immutable outcome of validating one element.
type ValidationResult struct {
	Valid  bool
	Score  int // 100 minus a fixed penalty per issue, floored at 0
	Issues []Issue
}

// ValidatorConfig tunes scoring.
type ValidatorConfig struct {
	// IssuePenalty is subtracted from 100 per issue. Default 20.
	IssuePenalty int
}

// Validate checks the element's ARIA structure with default scoring.
func Validate(ctx context.Context, n Node) (*ValidationResult, error) {
	return ValidateWith(ctx, n, ValidatorConfig{})
}

// ValidateWith checks that a present role carries its required companion
// attributes, and that every present aria attribute with an enumerated
// value space holds a valid literal.
func ValidateWith(ctx context.Context, n Node, cfg ValidatorConfig) (*ValidationResult, error) {
	penalty := cfg.IssuePenalty
	if penalty <= 0 {
		penalty = 20
	}

	attrs, err := n.Attrs(ctx)
	if err != nil {
		return nil, fmt.Errorf("aria: validate: %w", err)
	}

	var issues []Issue

	role := strings.ToLower(strings.TrimSpace(attrs["role"]))
	for _, req := range requiredByRole[role] {
		if _, ok := attrs[req]; !ok {
			issues = append(issues, Issue{Kind: IssueMissingAttribute, Role: role, Attr: req})
		}
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		allowed, enumerated := allowedValues[strings.ToLower(name)]
		if !enumerated {
			continue
		}
		value := strings.ToLower(strings.TrimSpace(attrs[name]))
		if !contains(allowed, value) {
			issues = append(issues, Issue{
				Kind:    IssueInvalidValue,
				Attr:    strings.ToLower(name),
				Value:   attrs[name],
				Allowed: allowed,
			})
		}
	}

	score := 100 - penalty*len(issues)
	if score < 0 {
		score = 0
	}
	return &ValidationResult{
		Valid:  len(issues) == 0,
		Score:  score,
		Issues: issues,
	}, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
