package remote

import (
	"strings"
	"unicode"

	"github.com/veridom/veridom/probe"
)

// Channel modifier bitmask: Alt=1, Ctrl=2, Meta=4, Shift=8.
const (
	modAlt     = 1
	modControl = 2
	modMeta    = 4
	modShift   = 8
)

// modifierBits folds held modifiers into the channel's bitmask.
func modifierBits(mods []probe.Modifier) int {
	bits := 0
	for _, m := range mods {
		switch m {
		case probe.ModAlt:
			bits |= modAlt
		case probe.ModControl:
			bits |= modControl
		case probe.ModMeta:
			bits |= modMeta
		case probe.ModShift:
			bits |= modShift
		}
	}
	return bits
}

// keyIdentity is the protocol identity of one key.
type keyIdentity struct {
	Key  string // DOM key value, "a" or "Enter"
	Code string // physical code, "KeyA" or "Enter"
	VK   int    // Windows virtual key code, required for editing shortcuts
	Text string // text inserted by an unmodified press
}

// namedKeys maps multi-character key names to their protocol identity.
var namedKeys = map[string]keyIdentity{
	"Enter":      {Key: "Enter", Code: "Enter", VK: 13, Text: "\r"},
	"Tab":        {Key: "Tab", Code: "Tab", VK: 9},
	"Escape":     {Key: "Escape", Code: "Escape", VK: 27},
	"Backspace":  {Key: "Backspace", Code: "Backspace", VK: 8},
	"Delete":     {Key: "Delete", Code: "Delete", VK: 46},
	"ArrowUp":    {Key: "ArrowUp", Code: "ArrowUp", VK: 38},
	"ArrowDown":  {Key: "ArrowDown", Code: "ArrowDown", VK: 40},
	"ArrowLeft":  {Key: "ArrowLeft", Code: "ArrowLeft", VK: 37},
	"ArrowRight": {Key: "ArrowRight", Code: "ArrowRight", VK: 39},
	"Home":       {Key: "Home", Code: "Home", VK: 36},
	"End":        {Key: "End", Code: "End", VK: 35},
	"PageUp":     {Key: "PageUp", Code: "PageUp", VK: 33},
	"PageDown":   {Key: "PageDown", Code: "PageDown", VK: 34},
}

// keyFor resolves a key name or a single character to its protocol identity.
// Unknown multi-character names still dispatch with only the key value set.
func keyFor(key string) keyIdentity {
	if id, ok := namedKeys[key]; ok {
		return id
	}
	runes := []rune(key)
	if len(runes) != 1 {
		return keyIdentity{Key: key}
	}
	r := runes[0]
	id := keyIdentity{Key: key, Text: key}
	switch {
	case r >= 'a' && r <= 'z':
		id.Code = "Key" + strings.ToUpper(key)
		id.VK = int(unicode.ToUpper(r))
	case r >= 'A' && r <= 'Z':
		id.Code = "Key" + key
		id.VK = int(r)
	case r >= '0' && r <= '9':
		id.Code = "Digit" + key
		id.VK = int(r)
	case r == ' ':
		id.Code = "Space"
		id.VK = 32
	}
	return id
}
