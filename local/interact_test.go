package local

import (
	"context"
	"testing"

	"github.com/veridom/veridom/dom"
	"github.com/veridom/veridom/probe"
)

var _ probe.Interactor = (*Handle)(nil)

func TestPressKeyCarriesModifiers(t *testing.T) {
	ctx := context.Background()
	ad := adapter(t, `<input id="f">`)
	h, err := ad.Element(probe.ByID("f"))
	if err != nil {
		t.Fatalf("Element: %v", err)
	}

	var events []*dom.Event
	h.Element().On("keydown", func(ev *dom.Event) { events = append(events, ev) })
	h.Element().On("keyup", func(ev *dom.Event) { events = append(events, ev) })

	if err := h.PressKey(ctx, "a", probe.ModControl, probe.ModShift); err != nil {
		t.Fatalf("PressKey: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("events: got %d, want keydown+keyup", len(events))
	}
	if events[0].Type != "keydown" || events[1].Type != "keyup" {
		t.Errorf("order: got %s, %s", events[0].Type, events[1].Type)
	}
	for _, ev := range events {
		if ev.Key != "a" {
			t.Errorf("Key: got %q", ev.Key)
		}
		if len(ev.Mods) != 2 || ev.Mods[0] != "Control" || ev.Mods[1] != "Shift" {
			t.Errorf("Mods: got %v", ev.Mods)
		}
	}
}

func TestDragToFourEventSequence(t *testing.T) {
	ctx := context.Background()
	ad := adapter(t, `<div id="src" draggable="true">card</div><div id="dst"></div>`)

	src, err := ad.Element(probe.ByID("src"))
	if err != nil {
		t.Fatalf("src: %v", err)
	}
	dst, err := ad.Element(probe.ByID("dst"))
	if err != nil {
		t.Fatalf("dst: %v", err)
	}

	var seq []string
	var payloads []string
	record := func(ev *dom.Event) {
		seq = append(seq, ev.Type+"@"+ev.Target.ID())
		payloads = append(payloads, ev.Data)
	}
	src.Element().On("dragstart", record)
	src.Element().On("dragend", record)
	dst.Element().On("dragover", record)
	dst.Element().On("drop", record)

	if err := src.DragTo(ctx, dst, probe.DragOptions{Payload: "card-7"}); err != nil {
		t.Fatalf("DragTo: %v", err)
	}

	want := []string{"dragstart@src", "dragover@dst", "drop@dst", "dragend@src"}
	if len(seq) != len(want) {
		t.Fatalf("sequence: got %v, want %v", seq, want)
	}
	for i := range want {
		if seq[i] != want[i] {
			t.Errorf("sequence[%d]: got %q, want %q", i, seq[i], want[i])
		}
	}
	for i, p := range payloads {
		if p != "card-7" {
			t.Errorf("payload[%d]: got %q, want %q", i, p, "card-7")
		}
	}
}

func TestDragToDefaultPayloadIsSourceID(t *testing.T) {
	ctx := context.Background()
	ad := adapter(t, `<div id="src">x</div><div id="dst"></div>`)

	src, _ := ad.Element(probe.ByID("src"))
	dst, _ := ad.Element(probe.ByID("dst"))

	var got string
	dst.Element().On("drop", func(ev *dom.Event) { got = ev.Data })

	if err := src.DragTo(ctx, dst, probe.DragOptions{}); err != nil {
		t.Fatalf("DragTo: %v", err)
	}
	if got != "src" {
		t.Errorf("default payload: got %q, want source id", got)
	}
}

// foreignHandle satisfies probe.Handle without being a local handle.
type foreignHandle struct{ probe.Handle }

func (foreignHandle) Substrate() probe.Substrate { return probe.SubstrateRemote }

func TestDragToRejectsForeignTarget(t *testing.T) {
	ctx := context.Background()
	ad := adapter(t, `<div id="src">x</div>`)
	src, _ := ad.Element(probe.ByID("src"))

	if err := src.DragTo(ctx, foreignHandle{}, probe.DragOptions{}); err != ErrForeignHandle {
		t.Errorf("got %v, want ErrForeignHandle", err)
	}
}
