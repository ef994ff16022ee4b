package probe

import (
	"fmt"
	"strings"
)

// Kind is a lookup criterion category.
type Kind string

const (
	KindID          Kind = "id"
	KindTestID      Kind = "test-id"
	KindClass       Kind = "class"
	KindRole        Kind = "role"
	KindLabel       Kind = "label"
	KindPlaceholder Kind = "placeholder"
	KindTitle       Kind = "title"
	KindValue       Kind = "value"
	KindName        Kind = "name"
	KindInputType   Kind = "input-type"
	KindTag         Kind = "tag"
	KindSelector    Kind = "selector"
	KindText        Kind = "text"
	KindPartialText Kind = "partial-text"
)

// By is an element lookup criterion. Lookups that match nothing fail fast
// with a NotFoundError naming the criterion; they never return an empty
// wrapper.
type By struct {
	Kind  Kind
	Value string
}

// ByID matches the element whose id attribute equals id.
func ByID(id string) By { return By{Kind: KindID, Value: id} }

// ByTestID matches on the data-testid attribute.
func ByTestID(id string) By { return By{Kind: KindTestID, Value: id} }

// ByClass matches elements carrying the given class token.
func ByClass(class string) By { return By{Kind: KindClass, Value: class} }

// ByRole matches on the explicit role attribute.
func ByRole(role string) By { return By{Kind: KindRole, Value: role} }

// ByLabel matches the form control associated with the label element whose
// text equals text, through the label's for attribute or containment.
func ByLabel(text string) By { return By{Kind: KindLabel, Value: text} }

// ByPlaceholder matches on the placeholder attribute.
func ByPlaceholder(text string) By { return By{Kind: KindPlaceholder, Value: text} }

// ByTitle matches on the title attribute.
func ByTitle(text string) By { return By{Kind: KindTitle, Value: text} }

// ByValue matches on the value attribute.
func ByValue(value string) By { return By{Kind: KindValue, Value: value} }

// ByName matches on the name attribute.
func ByName(name string) By { return By{Kind: KindName, Value: name} }

// ByInputType matches input elements by their type attribute.
func ByInputType(typ string) By { return By{Kind: KindInputType, Value: typ} }

// ByTag matches elements with the given tag name.
func ByTag(tag string) By { return By{Kind: KindTag, Value: tag} }

// BySelector matches a free-form CSS selector.
func BySelector(selector string) By { return By{Kind: KindSelector, Value: selector} }

// ByText matches the deepest element whose text content equals the text
// after trimming surrounding whitespace.
func ByText(text string) By { return By{Kind: KindText, Value: text} }

// ByPartialText matches the deepest element whose text content contains the
// substring.
func ByPartialText(text string) By { return By{Kind: KindPartialText, Value: text} }

// String names the criterion for error messages: `test-id "save-button"`.
func (b By) String() string {
	return fmt.Sprintf("%s %q", b.Kind, b.Value)
}

// Selector returns the CSS selector equivalent of the criterion and true
// when one exists. Label and text criteria have no selector form; adapters
// resolve those with their own matching walk.
func (b By) Selector() (string, bool) {
	switch b.Kind {
	case KindID:
		return AttrSelector("id", b.Value), true
	case KindTestID:
		return AttrSelector("data-testid", b.Value), true
	case KindClass:
		return fmt.Sprintf(`[class~="%s"]`, escapeSelectorValue(b.Value)), true
	case KindRole:
		return AttrSelector("role", b.Value), true
	case KindPlaceholder:
		return AttrSelector("placeholder", b.Value), true
	case KindTitle:
		return AttrSelector("title", b.Value), true
	case KindValue:
		return AttrSelector("value", b.Value), true
	case KindName:
		return AttrSelector("name", b.Value), true
	case KindInputType:
		return "input" + AttrSelector("type", b.Value), true
	case KindTag:
		return b.Value, true
	case KindSelector:
		return b.Value, true
	}
	return "", false
}

// AttrSelector returns an exact-match CSS attribute selector with the value
// escaped for double-quoted selector syntax.
func AttrSelector(name, value string) string {
	return fmt.Sprintf(`[%s="%s"]`, name, escapeSelectorValue(value))
}

func escapeSelectorValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `"`, `\"`)
}
