// Package fonts provides font faces for raster rendering.
//
// The faces come from the Go font family shipped with golang.org/x/image,
// so PNG output does not depend on fonts installed on the host.
package fonts

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontFamily is the CSS font-family matching the raster faces.
const FontFamily = "Go, sans-serif"

// Weight selects a face of the family.
type Weight uint8

const (
	Regular Weight = iota
	Bold
)

type faceKey struct {
	weight Weight
	size   float64
}

var (
	parseOnce sync.Once
	parsed    [2]*opentype.Font
	parseErr  error

	mu    sync.Mutex
	faces = map[faceKey]font.Face{}
)

// Face returns a face of the given weight and size in points at 72 DPI.
// Faces are cached and shared; callers must not close them.
func Face(w Weight, size float64) (font.Face, error) {
	parseOnce.Do(func() {
		for i, ttf := range [][]byte{goregular.TTF, gobold.TTF} {
			f, err := opentype.Parse(ttf)
			if err != nil {
				parseErr = fmt.Errorf("parse go font: %w", err)
				return
			}
			parsed[i] = f
		}
	})
	if parseErr != nil {
		return nil, parseErr
	}
	if w > Bold {
		w = Regular
	}

	mu.Lock()
	defer mu.Unlock()
	key := faceKey{w, size}
	if f, ok := faces[key]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(parsed[w], &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	faces[key] = f
	return f, nil
}
