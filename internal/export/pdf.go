package export

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/go-pdf/fpdf"

	"github.com/huepham/openhouse/internal/settings"
	"github.com/huepham/openhouse/internal/visitor"
)

// PDFFilename returns the per-record export filename, derived from the
// record id prefix.
func PDFFilename(r visitor.Record) string {
	return "OpenHouse_" + r.ShortID() + ".pdf"
}

// Page geometry in points. Letter is 612x792; margins and line spacing
// match the sheet the app has always printed.
const (
	pdfMargin     = 36.0
	pdfTitleSize  = 24.0
	pdfBodySize   = 14.0
	pdfLineHeight = 24.0
	sigBoxWidth   = 300.0
	sigBoxHeight  = 120.0
)

// SummaryPDF renders a single-page sign-in summary: the open-house header
// lines from settings (blank ones omitted), the visitor's fields, agent
// fields only when the visitor has one, and the signature image scaled into
// a fixed box when present.
func SummaryPDF(r visitor.Record, cfg settings.Settings) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", pdfTitleSize)
	pdf.Text(pdfMargin, pdfMargin+pdfTitleSize, tr("Open House Sign-In Summary"))

	pdf.SetFont("Helvetica", "", pdfBodySize)
	y := 90.0
	line := func(text string) {
		pdf.Text(pdfMargin, y+pdfBodySize, tr(text))
		y += pdfLineHeight
	}

	line("Property: " + cfg.PropertyAddress)
	if cfg.BrokerageTeam != "" {
		line("Brokerage/Team: " + cfg.BrokerageTeam)
	}
	if cfg.AgentOfRecord != "" {
		line("Agent of Record: " + cfg.AgentOfRecord)
	}
	y += 12

	line("Visitor: " + r.FullName)
	line("Email: " + r.Email)
	line("Phone: " + r.Phone)
	line("Has Agent: " + yesNo(r.HasAgent))
	if r.HasAgent {
		if r.AgentName != "" {
			line("Agent Name: " + r.AgentName)
		}
		if r.AgentEmail != "" {
			line("Agent Email: " + r.AgentEmail)
		}
		if r.AgentPhone != "" {
			line("Agent Phone: " + r.AgentPhone)
		}
	}
	line("Agreed to Disclosure: " + yesNo(r.AgreedToDisclosure))

	signedAt := "—"
	if r.SignedAt != nil {
		signedAt = r.SignedAt.Format("Jan 2, 2006 at 3:04 PM")
	}
	line("Signed At: " + signedAt)

	if len(r.SignaturePNG) > 0 {
		if err := drawSignature(pdf, tr, r.SignaturePNG, y); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// drawSignature places the signature image below the text block, scaled to
// fit the fixed signature box without distortion.
func drawSignature(pdf *fpdf.Fpdf, tr func(string) string, data []byte, y float64) error {
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("reading signature image: %w", err)
	}

	w, h := sigBoxWidth, sigBoxHeight
	if cfg.Width > 0 && cfg.Height > 0 {
		scale := min(sigBoxWidth/float64(cfg.Width), sigBoxHeight/float64(cfg.Height))
		w = float64(cfg.Width) * scale
		h = float64(cfg.Height) * scale
	}

	labelY := y + pdfLineHeight
	pdf.Text(pdfMargin, labelY, tr("Signature"))

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("signature", opts, bytes.NewReader(data))
	pdf.ImageOptions("signature", pdfMargin, labelY+6, w, h, false, opts, 0, "")

	if pdf.Err() {
		return fmt.Errorf("placing signature image: %w", pdf.Error())
	}
	return nil
}
