package remote

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
)

// DiffImages compares two PNGs pixel by pixel and returns the fraction of
// differing pixels over the union of both areas: 0 means identical, 1 means
// nothing matches. Area covered by only one image counts as differing.
func DiffImages(a, b []byte) (float64, error) {
	first, err := png.Decode(bytes.NewReader(a))
	if err != nil {
		return 0, fmt.Errorf("remote: decode first image: %w", err)
	}
	second, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		return 0, fmt.Errorf("remote: decode second image: %w", err)
	}

	fb, sb := first.Bounds(), second.Bounds()
	w := max(fb.Dx(), sb.Dx())
	h := max(fb.Dy(), sb.Dy())
	total := w * h
	if total == 0 {
		return 0, nil
	}

	diff := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x >= fb.Dx() || y >= fb.Dy() || x >= sb.Dx() || y >= sb.Dy() {
				diff++
				continue
			}
			if !samePixel(first.At(fb.Min.X+x, fb.Min.Y+y), second.At(sb.Min.X+x, sb.Min.Y+y)) {
				diff++
			}
		}
	}
	return float64(diff) / float64(total), nil
}

func samePixel(p, q color.Color) bool {
	r1, g1, b1, a1 := p.RGBA()
	r2, g2, b2, a2 := q.RGBA()
	return r1 == r2 && g1 == g2 && b1 == b2 && a1 == a2
}
