package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"time"
)

// Image references locally captured binary content. The reader is consumed
// exactly once, streaming into the multipart body.
type Image struct {
	Name     string
	MimeType string
	Reader   io.Reader
}

// Installment is one entry of the installment breakdown. The structure is
// the server's concern; the client serializes it verbatim.
type Installment map[string]interface{}

// ProgressSubmission is one progress report. It exists for a single
// submission attempt and is discarded afterwards whether or not the request
// succeeded. Zero-valued fields produce no multipart part at all.
type ProgressSubmission struct {
	Description              string
	SanctionedAmount         float64
	TotalAmountReleasedSoFar float64
	RemainingBalance         float64
	ExpenditureAmount        float64
	MBStage                  string
	Installments             []Installment
	Images                   []Image
	Document                 *Image
	Latitude                 *float64
	Longitude                *float64
}

// encode assembles the multipart body. Binary parts go under "images" (and
// optionally "document"); scalar fields are text parts appended only when
// set, with monetary values coerced to their string representation - the
// wire format is text-only and numeric semantics stay the server's concern.
func (p ProgressSubmission) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for i, img := range p.Images {
		name := img.Name
		if name == "" {
			name = fmt.Sprintf("progress_image_%d_%d.jpg", time.Now().Unix(), i)
		}
		mimeType := img.MimeType
		if mimeType == "" {
			mimeType = "image/jpeg"
		}
		if err := writeFilePart(w, "images", name, mimeType, img.Reader); err != nil {
			return nil, "", err
		}
	}

	if p.Document != nil {
		name := p.Document.Name
		if name == "" {
			name = "document.pdf"
		}
		mimeType := p.Document.MimeType
		if mimeType == "" {
			mimeType = "application/pdf"
		}
		if err := writeFilePart(w, "document", name, mimeType, p.Document.Reader); err != nil {
			return nil, "", err
		}
	}

	fields := []struct {
		name  string
		value string
	}{
		{"desc", p.Description},
		{"sanctionedAmount", money(p.SanctionedAmount)},
		{"totalAmountReleasedSoFar", money(p.TotalAmountReleasedSoFar)},
		{"remainingBalance", money(p.RemainingBalance)},
		{"expenditureAmount", money(p.ExpenditureAmount)},
		{"mbStageMeasurementBookStag", p.MBStage},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}

	if len(p.Installments) > 0 {
		// Nested structure flattened to one JSON-encoded text part.
		encoded, err := json.Marshal(p.Installments)
		if err != nil {
			return nil, "", err
		}
		if err := w.WriteField("installments", string(encoded)); err != nil {
			return nil, "", err
		}
	}

	if p.Latitude != nil {
		if err := w.WriteField("latitude", formatCoord(*p.Latitude)); err != nil {
			return nil, "", err
		}
	}
	if p.Longitude != nil {
		if err := w.WriteField("longitude", formatCoord(*p.Longitude)); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// writeFilePart writes one binary part carrying its MIME type and filename.
func writeFilePart(w *multipart.Writer, field, filename, mimeType string, r io.Reader) error {
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", mimeType)

	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	if r == nil {
		return fmt.Errorf("file part %q has no content", filename)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("failed to stream %q: %w", filename, err)
	}
	return nil
}

// money renders a monetary value for the wire; zero means "not provided".
func money(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
