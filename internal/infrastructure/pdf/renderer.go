// Package pdf renders receipt documents to PDF with go-pdf/fpdf. Layout
// constants mirror the bank's receipt template: a filled header band, a
// status badge, label/value sections down the left, the verification code
// on the right, and a small-print footer.
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/williamsclintwayne/YourBank-backend/internal/domain/document"
)

const (
	marginX    = 20.0
	valueX     = 70.0
	headerH    = 40.0
	badgeW     = 60.0
	badgeH     = 12.0
	rowStep    = 10.0
	qrSide     = 40.0
	qrTop      = 150.0
	footerStep = 10.0
)

var (
	colorPrimary   = [3]int{30, 64, 175}
	colorSecondary = [3]int{107, 114, 128}
	colorSuccess   = [3]int{5, 150, 105}
	colorFailure   = [3]int{220, 38, 38}
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Render(doc *document.Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()

	y := headerH + rowStep
	var watermark string

	for i, block := range doc.Blocks() {
		switch b := block.(type) {
		case document.Header:
			watermark = strings.ToUpper(b.Title)
			pdf.SetFillColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
			pdf.Rect(0, 0, pageW, headerH, "F")
			pdf.SetTextColor(255, 255, 255)
			pdf.SetFont("Helvetica", "B", 24)
			pdf.Text(marginX, 25, b.Title)
			pdf.SetFont("Helvetica", "", 16)
			pdf.Text(pageW-marginX-pdf.GetStringWidth(b.Subtitle), 25, b.Subtitle)
			y = headerH + rowStep

		case document.Badge:
			fill := colorSuccess
			if !b.Positive {
				fill = colorFailure
			}
			pdf.SetFillColor(fill[0], fill[1], fill[2])
			pdf.RoundedRect(marginX, y, badgeW, badgeH, 3, "1234", "F")
			pdf.SetTextColor(255, 255, 255)
			pdf.SetFont("Helvetica", "B", 10)
			pdf.Text(marginX+(badgeW-pdf.GetStringWidth(b.Label))/2, y+badgeH-3.5, b.Label)
			y += badgeH + rowStep

		case document.Section:
			y += rowStep
			pdf.SetTextColor(0, 0, 0)
			pdf.SetFont("Helvetica", "B", 14)
			pdf.Text(marginX, y, b.Title)
			y += rowStep + 5
			for _, f := range b.Fields {
				pdf.SetTextColor(0, 0, 0)
				pdf.SetFont("Helvetica", "", 10)
				pdf.Text(marginX, y, f.Label+":")
				if f.Emphasis {
					pdf.SetFont("Helvetica", "B", 14)
					pdf.SetTextColor(colorSuccess[0], colorSuccess[1], colorSuccess[2])
				} else {
					pdf.SetFont("Helvetica", "B", 10)
				}
				pdf.Text(valueX, y, f.Value)
				y += rowStep
			}

		case document.Image:
			name := fmt.Sprintf("block%d", i)
			opts := fpdf.ImageOptions{ImageType: "PNG"}
			pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(b.PNG))
			pdf.ImageOptions(name, pageW-marginX-qrSide, qrTop, qrSide, qrSide, false, opts, 0, "")
			if b.Caption != "" {
				pdf.SetFont("Helvetica", "", 8)
				pdf.SetTextColor(colorSecondary[0], colorSecondary[1], colorSecondary[2])
				captionX := pageW - marginX - qrSide/2 - pdf.GetStringWidth(b.Caption)/2
				pdf.Text(captionX, qrTop+qrSide+6, b.Caption)
			}

		case document.Footer:
			pdf.SetFont("Helvetica", "", 8)
			pdf.SetTextColor(colorSecondary[0], colorSecondary[1], colorSecondary[2])
			fy := pageH - footerStep*float64(len(b.Lines))
			for _, line := range b.Lines {
				pdf.Text(marginX, fy, line)
				fy += footerStep
			}
		}
	}

	if watermark != "" {
		pdf.SetAlpha(0.1, "Normal")
		pdf.SetFont("Helvetica", "B", 40)
		pdf.SetTextColor(0, 0, 0)
		pdf.TransformBegin()
		pdf.TransformRotate(45, pageW/2, pageH/2)
		pdf.Text(pageW/2-pdf.GetStringWidth(watermark)/2, pageH/2, watermark)
		pdf.TransformEnd()
		pdf.SetAlpha(1, "Normal")
	}

	if pdf.Err() {
		return nil, fmt.Errorf("pdf render: %w", pdf.Error())
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}
