package dom

import (
	"strconv"
	"strings"
)

// styleProp is one declaration of an inline style attribute.
type styleProp struct {
	name  string
	value string
}

// parseStyle splits an inline style attribute into declarations, preserving
// order. Property names are lowercased; an "!important" suffix is stripped.
func parseStyle(attr string) []styleProp {
	var props []styleProp
	for _, part := range strings.Split(attr, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		colon := strings.Index(part, ":")
		if colon < 0 {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(part[:colon]))
		value := strings.TrimSpace(part[colon+1:])
		if low := strings.ToLower(value); strings.HasSuffix(low, "!important") {
			value = strings.TrimSpace(value[:len(value)-len("!important")])
			value = strings.TrimSuffix(value, "!")
			value = strings.TrimSpace(value)
		}
		if name == "" || value == "" {
			continue
		}
		props = append(props, styleProp{name: name, value: value})
	}
	return props
}

func serializeStyle(props []styleProp) string {
	parts := make([]string, 0, len(props))
	for _, p := range props {
		parts = append(parts, p.name+": "+p.value)
	}
	return strings.Join(parts, "; ")
}

// StyleProperty returns the value of one inline style property, or "" when
// the property is not declared. Later declarations win.
func (e *Element) StyleProperty(name string) string {
	attr, _ := e.Attr("style")
	name = strings.ToLower(name)
	value := ""
	for _, p := range parseStyle(attr) {
		if p.name == name {
			value = p.value
		}
	}
	return value
}

// SetStyle sets one inline style property, updating the style attribute in
// place. An empty value removes the property. The attribute write records an
// attribute mutation like any other.
func (e *Element) SetStyle(name, value string) {
	name = strings.ToLower(name)
	attr, _ := e.Attr("style")
	props := parseStyle(attr)

	if value == "" {
		kept := props[:0]
		for _, p := range props {
			if p.name != name {
				kept = append(kept, p)
			}
		}
		props = kept
	} else {
		found := false
		for i := range props {
			if props[i].name == name {
				props[i].value = value
				found = true
			}
		}
		if !found {
			props = append(props, styleProp{name: name, value: value})
		}
	}

	if len(props) == 0 {
		e.RemoveAttr("style")
		return
	}
	e.SetAttr("style", serializeStyle(props))
}

// Visible reports whether the element is visible by its own inline style:
// display other than none, visibility other than hidden, opacity other than
// zero. Layout box dimensions are deliberately ignored; this model has no
// layout engine.
func (e *Element) Visible() bool {
	attr, _ := e.Attr("style")
	display, visibility, opacity := "", "", ""
	for _, p := range parseStyle(attr) {
		switch p.name {
		case "display":
			display = strings.ToLower(p.value)
		case "visibility":
			visibility = strings.ToLower(p.value)
		case "opacity":
			opacity = p.value
		}
	}

	if display == "none" || visibility == "hidden" {
		return false
	}
	if opacity != "" {
		if f, err := strconv.ParseFloat(opacity, 64); err == nil && f == 0 {
			return false
		}
	}
	return true
}
