package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/jung-kurt/gofpdf"
)

const pdfImageName = "canvas"

// EncodePDF writes img onto a single A4 landscape page, scaled to fit inside
// the margins and centred.
func EncodePDF(w io.Writer, img image.Image) error {
	var raw bytes.Buffer
	if err := png.Encode(&raw, img); err != nil {
		return fmt.Errorf("export: pdf: encode image: %w", err)
	}

	p := gofpdf.New("L", "mm", "A4", "")
	p.SetTitle("LocalPaint drawing", true)
	p.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader(pdfImageName, opts, &raw)

	pageW, pageH := p.GetPageSize()
	left, top, right, bottom := p.GetMargins()
	boxW, boxH := pageW-left-right, pageH-top-bottom

	b := img.Bounds()
	imgW, imgH := float64(b.Dx()), float64(b.Dy())
	scale := boxW / imgW
	if s := boxH / imgH; s < scale {
		scale = s
	}
	w2, h2 := imgW*scale, imgH*scale
	x := left + (boxW-w2)/2
	y := top + (boxH-h2)/2

	p.SetDrawColor(0, 0, 0)
	p.SetLineWidth(0.2)
	p.Rect(x, y, w2, h2, "D")
	p.ImageOptions(pdfImageName, x, y, w2, h2, false, opts, 0, "")

	if err := p.Output(w); err != nil {
		return fmt.Errorf("export: pdf: %w", err)
	}
	return nil
}
