package imagepkg

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

const (
	margin     = 48
	gap        = 8
	thumbW     = 146
	thumbH     = 204
	artPerRow  = 5
	minCanvasH = 2*margin + thumbH
)

var background = color.NRGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}

// ComposeShareImage lays out card art thumbnails in rows of five on the left
// and the QR code on the right. Nil art entries are skipped; qr may be nil.
func ComposeShareImage(art []image.Image, qr image.Image, qrSize int) image.Image {
	thumbs := make([]image.Image, 0, len(art))
	for _, a := range art {
		if a != nil {
			thumbs = append(thumbs, imaging.Fill(a, thumbW, thumbH, imaging.Center, imaging.Lanczos))
		}
	}

	cols := min(len(thumbs), artPerRow)
	rows := (len(thumbs) + artPerRow - 1) / artPerRow
	if qr == nil {
		qrSize = 0
	}

	artW, artH := 0, 0
	if cols > 0 {
		artW = cols*thumbW + (cols-1)*gap
		artH = rows*thumbH + (rows-1)*gap
	}
	w := margin + artW + qrSize + margin
	if artW > 0 && qrSize > 0 {
		w += margin
	}
	w = max(w, 2*margin+thumbW)
	h := max(minCanvasH, 2*margin+max(artH, qrSize))
	canvas := imaging.New(w, h, background)

	for i, t := range thumbs {
		x := margin + (i%artPerRow)*(thumbW+gap)
		y := margin + (i/artPerRow)*(thumbH+gap)
		canvas = imaging.Paste(canvas, t, image.Pt(x, y))
	}

	if qr != nil {
		q := imaging.Resize(qr, qrSize, qrSize, imaging.NearestNeighbor)
		canvas = imaging.Paste(canvas, q, image.Pt(w-margin-qrSize, margin))
	}
	return canvas
}
