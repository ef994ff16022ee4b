package dom

import (
	"strings"
	"testing"
)

func mustParse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := ParseString(src)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	return doc
}

func TestFindBySelector(t *testing.T) {
	doc := mustParse(t, `
		<div id="outer">
			<button class="btn primary" data-testid="save">Save</button>
			<button class="btn">Cancel</button>
		</div>`)

	tests := []struct {
		selector string
		wantTag  string
		wantText string
	}{
		{`#outer`, "div", ""},
		{`[data-testid="save"]`, "button", "Save"},
		{`.primary`, "button", "Save"},
		{`button`, "button", "Save"}, // first in document order
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			el := doc.Find(tt.selector)
			if el == nil {
				t.Fatalf("Find(%q): no match", tt.selector)
			}
			if el.Tag() != tt.wantTag {
				t.Errorf("Tag: got %q, want %q", el.Tag(), tt.wantTag)
			}
			if tt.wantText != "" && strings.TrimSpace(el.Text()) != tt.wantText {
				t.Errorf("Text: got %q, want %q", el.Text(), tt.wantText)
			}
		})
	}

	if el := doc.Find("#missing"); el != nil {
		t.Errorf("Find on absent id: got %v, want nil", el)
	}
	if all := doc.FindAll("button"); len(all) != 2 {
		t.Errorf("FindAll(button): got %d elements, want 2", len(all))
	}
}

func TestElementByID(t *testing.T) {
	doc := mustParse(t, `<p id="greeting">hi</p>`)
	el := doc.ElementByID("greeting")
	if el == nil {
		t.Fatal("ElementByID: no match")
	}
	if el.Tag() != "p" {
		t.Errorf("Tag: got %q, want %q", el.Tag(), "p")
	}
	if doc.ElementByID("nope") != nil {
		t.Error("ElementByID on absent id: want nil")
	}
}

func TestAttributes(t *testing.T) {
	doc := mustParse(t, `<input id="f" class="a b" type="text">`)
	el := doc.ElementByID("f")

	if v, ok := el.Attr("type"); !ok || v != "text" {
		t.Errorf("Attr(type): got %q,%v", v, ok)
	}
	el.SetAttr("type", "password")
	if v, _ := el.Attr("type"); v != "password" {
		t.Errorf("after SetAttr: got %q, want %q", v, "password")
	}
	el.SetAttr("data-new", "1")
	if v, ok := el.Attr("data-new"); !ok || v != "1" {
		t.Errorf("Attr(data-new): got %q,%v", v, ok)
	}
	el.RemoveAttr("data-new")
	if _, ok := el.Attr("data-new"); ok {
		t.Error("Attr after RemoveAttr: still present")
	}

	if !el.HasClass("a") || !el.HasClass("b") || el.HasClass("c") {
		t.Errorf("HasClass: got classes %v", el.Classes())
	}
}

func TestTextContent(t *testing.T) {
	doc := mustParse(t, `<div id="d">Hello <b>bold</b> world</div>`)
	el := doc.ElementByID("d")

	if got := el.Text(); got != "Hello bold world" {
		t.Errorf("Text: got %q", got)
	}

	el.SetText("replaced")
	if got := el.Text(); got != "replaced" {
		t.Errorf("Text after SetText: got %q", got)
	}
	if len(el.Children()) != 0 {
		t.Errorf("Children after SetText: got %d, want 0", len(el.Children()))
	}
}

func TestTreeOperations(t *testing.T) {
	doc := mustParse(t, `<ul id="list"></ul>`)
	list := doc.ElementByID("list")
	before := doc.ElementCount()

	item := doc.CreateElement("li")
	if item.Attached() {
		t.Error("created element reports attached before insertion")
	}
	if err := list.AppendChild(item); err != nil {
		t.Fatalf("AppendChild: %v", err)
	}
	if !item.Attached() {
		t.Error("element not attached after AppendChild")
	}
	if got := doc.ElementCount(); got != before+1 {
		t.Errorf("ElementCount: got %d, want %d", got, before+1)
	}
	if p := item.Parent(); p == nil || p.Tag() != "ul" {
		t.Errorf("Parent: got %v", p)
	}

	item.Remove()
	if item.Attached() {
		t.Error("element still attached after Remove")
	}
	if got := doc.ElementCount(); got != before {
		t.Errorf("ElementCount after Remove: got %d, want %d", got, before)
	}
}

func TestCrossDocumentAppendRejected(t *testing.T) {
	a := mustParse(t, `<div id="a"></div>`)
	b := mustParse(t, `<div id="b"></div>`)

	err := a.ElementByID("a").AppendChild(b.ElementByID("b"))
	if err != ErrCrossDocument {
		t.Errorf("got %v, want ErrCrossDocument", err)
	}
}

func TestFocusTracking(t *testing.T) {
	doc := mustParse(t, `<input id="one"><input id="two">`)
	one, two := doc.ElementByID("one"), doc.ElementByID("two")

	if doc.Active() != nil {
		t.Error("Active before any focus: want nil")
	}

	var events []string
	one.On("focus", func(*Event) { events = append(events, "focus one") })
	one.On("blur", func(*Event) { events = append(events, "blur one") })
	two.On("focus", func(*Event) { events = append(events, "focus two") })

	one.Focus()
	if doc.Active() == nil || doc.Active().ID() != "one" {
		t.Fatalf("Active after Focus: got %v", doc.Active())
	}

	two.Focus()
	if doc.Active().ID() != "two" {
		t.Errorf("Active after second Focus: got %q", doc.Active().ID())
	}

	want := []string{"focus one", "blur one", "focus two"}
	if len(events) != len(want) {
		t.Fatalf("events: got %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("events[%d]: got %q, want %q", i, events[i], want[i])
		}
	}

	two.Blur()
	if doc.Active() != nil {
		t.Error("Active after Blur: want nil")
	}
}

func TestLiveValue(t *testing.T) {
	doc := mustParse(t, `<input id="f" value="initial">`)
	el := doc.ElementByID("f")

	if got := el.Value(); got != "initial" {
		t.Errorf("Value from attribute: got %q", got)
	}

	var inputs int
	el.On("input", func(*Event) { inputs++ })

	el.SetValue("typed")
	if got := el.Value(); got != "typed" {
		t.Errorf("Value after SetValue: got %q", got)
	}
	if v, _ := el.Attr("value"); v != "initial" {
		t.Errorf("value attribute changed by SetValue: got %q", v)
	}
	if inputs != 1 {
		t.Errorf("input events: got %d, want 1", inputs)
	}
}

func TestMutationObservation(t *testing.T) {
	doc := mustParse(t, `<div id="host"><span id="victim">x</span></div>`)
	host := doc.ElementByID("host")

	var got []Mutation
	cancel := doc.Observe(func(m Mutation) { got = append(got, m) })
	defer cancel()

	host.SetAttr("data-state", "ready")
	host.SetText("new text")
	child := doc.CreateElement("p")
	if err := host.AppendChild(child); err != nil {
		t.Fatalf("AppendChild: %v", err)
	}
	child.Remove()

	if len(got) != 4 {
		t.Fatalf("mutations: got %d, want 4: %+v", len(got), got)
	}

	if got[0].Kind != KindAttributes || got[0].Attr != "data-state" || got[0].NewValue != "ready" {
		t.Errorf("attr mutation: %+v", got[0])
	}
	if got[1].Kind != KindCharacterData || got[1].NewValue != "new text" {
		t.Errorf("characterData mutation: %+v", got[1])
	}
	if got[2].Kind != KindChildList || got[2].Added != 1 || got[2].Removed != 0 {
		t.Errorf("append mutation: %+v", got[2])
	}
	if got[3].Kind != KindChildList || got[3].Removed != 1 {
		t.Errorf("remove mutation: %+v", got[3])
	}
	for i, m := range got {
		if m.Timestamp.IsZero() {
			t.Errorf("mutation %d has zero timestamp", i)
		}
		if m.Tag == "" {
			t.Errorf("mutation %d has empty tag", i)
		}
	}

	cancel()
	host.SetAttr("data-after", "1")
	if len(got) != 4 {
		t.Errorf("mutation delivered after cancel: got %d records", len(got))
	}
}

func TestOuterHTML(t *testing.T) {
	doc := mustParse(t, `<div id="d"><em>x</em></div>`)
	el := doc.ElementByID("d")

	if got := el.OuterHTML(); got != `<div id="d"><em>x</em></div>` {
		t.Errorf("element OuterHTML: got %q", got)
	}
	if whole := doc.OuterHTML(); !strings.Contains(whole, "<body>") {
		t.Errorf("document OuterHTML missing body: %q", whole)
	}
}
