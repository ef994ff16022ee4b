package remote

import (
	"testing"

	"github.com/veridom/veridom/probe"
)

func TestModifierBits(t *testing.T) {
	tests := []struct {
		name string
		mods []probe.Modifier
		want int
	}{
		{"none", nil, 0},
		{"alt", []probe.Modifier{probe.ModAlt}, 1},
		{"control", []probe.Modifier{probe.ModControl}, 2},
		{"meta", []probe.Modifier{probe.ModMeta}, 4},
		{"shift", []probe.Modifier{probe.ModShift}, 8},
		{"control and alt", []probe.Modifier{probe.ModControl, probe.ModAlt}, 3},
		{"order independent", []probe.Modifier{probe.ModShift, probe.ModAlt}, 9},
		{"all four", []probe.Modifier{probe.ModAlt, probe.ModControl, probe.ModMeta, probe.ModShift}, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := modifierBits(tt.mods); got != tt.want {
				t.Errorf("modifierBits(%v) = %d, want %d", tt.mods, got, tt.want)
			}
		})
	}
}

func TestKeyForNamedKeys(t *testing.T) {
	tests := []struct {
		key  string
		code string
		vk   int
		text string
	}{
		{"Enter", "Enter", 13, "\r"},
		{"Tab", "Tab", 9, ""},
		{"Escape", "Escape", 27, ""},
		{"Backspace", "Backspace", 8, ""},
		{"ArrowDown", "ArrowDown", 40, ""},
		{"PageUp", "PageUp", 33, ""},
	}
	for _, tt := range tests {
		id := keyFor(tt.key)
		if id.Key != tt.key || id.Code != tt.code || id.VK != tt.vk || id.Text != tt.text {
			t.Errorf("keyFor(%q) = %+v, want key %q code %q vk %d text %q",
				tt.key, id, tt.key, tt.code, tt.vk, tt.text)
		}
	}
}

func TestKeyForCharacters(t *testing.T) {
	tests := []struct {
		key  string
		code string
		vk   int
	}{
		{"a", "KeyA", 65},
		{"z", "KeyZ", 90},
		{"Q", "KeyQ", 81},
		{"0", "Digit0", 48},
		{"7", "Digit7", 55},
		{" ", "Space", 32},
	}
	for _, tt := range tests {
		id := keyFor(tt.key)
		if id.Code != tt.code || id.VK != tt.vk {
			t.Errorf("keyFor(%q) = code %q vk %d, want code %q vk %d",
				tt.key, id.Code, id.VK, tt.code, tt.vk)
		}
		if id.Text != tt.key {
			t.Errorf("keyFor(%q) text = %q, want the character itself", tt.key, id.Text)
		}
	}
}

func TestKeyForUnknownNameStillDispatches(t *testing.T) {
	id := keyFor("MediaPlayPause")
	if id.Key != "MediaPlayPause" {
		t.Errorf("key = %q, want MediaPlayPause", id.Key)
	}
	if id.Code != "" || id.VK != 0 || id.Text != "" {
		t.Errorf("unknown key should carry no derived identity, got %+v", id)
	}
}

func TestKeyForNonASCIICharacter(t *testing.T) {
	id := keyFor("é")
	if id.Key != "é" || id.Text != "é" {
		t.Errorf("keyFor(é) = %+v, want key and text to carry the character", id)
	}
	if id.VK != 0 {
		t.Errorf("vk = %d, want 0 for characters without a known code", id.VK)
	}
}
