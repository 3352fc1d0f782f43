// Package cover derives playlist cover images.
package cover

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/stavik/jambot/internal/domain/track"
)

const (
	tileSize  = 80
	gridSize  = 3
	seedLimit = 8 // only the first tracks feed the seed
)

// Generate renders a deterministic 3x3 color mosaic for a playlist and
// returns it as a PNG data URL. The seed is the playlist name plus the
// first tracks, so the cover changes whenever the leading contents do.
func Generate(name string, tracks []track.Track) string {
	parts := []string{name}
	for i, t := range tracks {
		if i >= seedLimit {
			break
		}
		parts = append(parts, t.Artist+":"+t.Title)
	}
	colors := hashColors(strings.Join(parts, "|"), gridSize*gridSize)

	size := tileSize * gridSize
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for ty := 0; ty < gridSize; ty++ {
		for tx := 0; tx < gridSize; tx++ {
			c := colors[ty*gridSize+tx]
			for y := ty * tileSize; y < (ty+1)*tileSize; y++ {
				for x := tx * tileSize; x < (tx+1)*tileSize; x++ {
					img.SetRGBA(x, y, c)
				}
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		// Encoding an in-memory RGBA image cannot fail in practice;
		// fall back to no cover rather than surfacing an error.
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// hashColors derives n colors from the sha256 digest of the seed.
func hashColors(seed string, n int) []color.RGBA {
	digest := hex.EncodeToString(func() []byte {
		sum := sha256.Sum256([]byte(seed))
		return sum[:]
	}())

	colors := make([]color.RGBA, n)
	for i := 0; i < n; i++ {
		chunk := digest[i*6 : i*6+6]
		r, _ := hex.DecodeString(chunk[0:2])
		g, _ := hex.DecodeString(chunk[2:4])
		b, _ := hex.DecodeString(chunk[4:6])
		colors[i] = color.RGBA{R: r[0], G: g[0], B: b[0], A: 255}
	}
	return colors
}
