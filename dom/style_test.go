package dom

import "testing"

func TestVisible(t *testing.T) {
	tests := []struct {
		name string
		html string
		want bool
	}{
		{"unstyled", `<div id="x"></div>`, true},
		{"display none", `<div id="x" style="display: none"></div>`, false},
		{"display block", `<div id="x" style="display: block"></div>`, true},
		{"visibility hidden", `<div id="x" style="visibility: hidden"></div>`, false},
		{"visibility visible", `<div id="x" style="visibility: visible"></div>`, true},
		{"opacity zero", `<div id="x" style="opacity: 0"></div>`, false},
		{"opacity zero point zero", `<div id="x" style="opacity: 0.0"></div>`, false},
		{"opacity partial", `<div id="x" style="opacity: 0.5"></div>`, true},
		{"combined hidden wins", `<div id="x" style="display: block; visibility: hidden"></div>`, false},
		{"unrelated style", `<div id="x" style="color: red"></div>`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, tt.html)
			if got := doc.ElementByID("x").Visible(); got != tt.want {
				t.Errorf("Visible: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStyleProperty(t *testing.T) {
	doc := mustParse(t, `<div id="x" style="Display: NONE; color: red !important; margin:0"></div>`)
	el := doc.ElementByID("x")

	tests := []struct {
		prop string
		want string
	}{
		{"display", "NONE"},         // value case preserved
		{"Display", "NONE"},         // property lookup case-insensitive
		{"color", "red"},            // !important stripped
		{"margin", "0"},
		{"padding", ""},
	}
	for _, tt := range tests {
		if got := el.StyleProperty(tt.prop); got != tt.want {
			t.Errorf("StyleProperty(%q): got %q, want %q", tt.prop, got, tt.want)
		}
	}
}

func TestSetStyle(t *testing.T) {
	doc := mustParse(t, `<div id="x"></div>`)
	el := doc.ElementByID("x")

	el.SetStyle("display", "none")
	if got := el.StyleProperty("display"); got != "none" {
		t.Fatalf("StyleProperty after SetStyle: got %q", got)
	}
	if el.Visible() {
		t.Error("Visible after display:none: got true")
	}

	el.SetStyle("color", "blue")
	if attr, _ := el.Attr("style"); attr != "display: none; color: blue" {
		t.Errorf("style attribute: got %q", attr)
	}

	el.SetStyle("display", "block")
	if !el.Visible() {
		t.Error("Visible after display:block: got false")
	}

	el.SetStyle("display", "")
	el.SetStyle("color", "")
	if _, ok := el.Attr("style"); ok {
		t.Error("style attribute remains after removing all properties")
	}
}

func TestParseStyleMalformed(t *testing.T) {
	props := parseStyle(";; display : none ; nonsense ; :orphan; empty: ;")
	if len(props) != 1 {
		t.Fatalf("parseStyle: got %d declarations, want 1: %+v", len(props), props)
	}
	if props[0].name != "display" || props[0].value != "none" {
		t.Errorf("parseStyle: got %+v", props[0])
	}
}
