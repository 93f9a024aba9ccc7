package creditreport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractionError reports a PDF that could not be turned into text.
// Its message is safe to show to the person who uploaded the file.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	return "cannot read credit report: " + e.Reason
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Document is the text of a credit report, one entry per page
type Document struct {
	Pages []string
}

// Text joins the pages into a single newline separated string
func (d Document) Text() string {
	return strings.Join(d.Pages, "\n")
}

// DocumentFromText wraps already extracted text
func DocumentFromText(text string) Document {
	return Document{Pages: []string{text}}
}

var pdfMagic = []byte("%PDF-")

// ExtractFile extracts the text of the PDF at path
func ExtractFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to open PDF file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Document{}, fmt.Errorf("failed to stat PDF file: %w", err)
	}
	return ExtractText(f, info.Size())
}

// ExtractBytes extracts the text of an in-memory PDF
func ExtractBytes(data []byte) (Document, error) {
	return ExtractText(bytes.NewReader(data), int64(len(data)))
}

// ExtractText reads every page of the PDF and rebuilds its text line by line.
// Any failure, including a panic inside the PDF parser, is returned as an
// *ExtractionError.
func ExtractText(r io.ReaderAt, size int64) (doc Document, err error) {
	head := make([]byte, len(pdfMagic))
	if size < int64(len(head)) {
		return Document{}, &ExtractionError{Reason: "file is empty or truncated"}
	}
	if _, err := r.ReadAt(head, 0); err != nil {
		return Document{}, &ExtractionError{Reason: "file could not be read", Err: err}
	}
	if !bytes.Equal(head, pdfMagic) {
		return Document{}, &ExtractionError{Reason: "file is not a PDF"}
	}

	defer func() {
		if p := recover(); p != nil {
			doc = Document{}
			err = &ExtractionError{Reason: "PDF is malformed or uses an unsupported feature", Err: fmt.Errorf("pdf: %v", p)}
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return Document{}, &ExtractionError{Reason: "PDF is password protected", Err: err}
		}
		return Document{}, &ExtractionError{Reason: "PDF is malformed or unsupported", Err: err}
	}

	var nonEmpty bool
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text := pageText(page.Content().Text)
		if strings.TrimSpace(text) != "" {
			nonEmpty = true
		}
		doc.Pages = append(doc.Pages, text)
	}
	if !nonEmpty {
		return Document{}, &ExtractionError{Reason: "PDF contains no extractable text (scanned image?)"}
	}
	return doc, nil
}

// pageText renders the glyphs of a page top to bottom. Glyphs whose baselines
// are within a fraction of the font size share a line; a line is ordered by X
// and words are split where the gap between glyphs is wider than a fifth of the
// font size or the PDF drew an explicit space.
func pageText(texts []pdf.Text) string {
	glyphs := append([]pdf.Text(nil), texts...)
	sort.SliceStable(glyphs, func(i, j int) bool { return glyphs[i].Y > glyphs[j].Y })

	var sb strings.Builder
	for len(glyphs) > 0 {
		top := glyphs[0].Y
		tol := math.Max(math.Abs(glyphs[0].FontSize)*0.4, 1)
		n := 1
		for n < len(glyphs) && top-glyphs[n].Y <= tol {
			n++
		}
		if s := lineText(glyphs[:n]); s != "" {
			sb.WriteString(s)
			sb.WriteByte('\n')
		}
		glyphs = glyphs[n:]
	}
	return sb.String()
}

func lineText(line []pdf.Text) string {
	sort.SliceStable(line, func(i, j int) bool { return line[i].X < line[j].X })

	var sb strings.Builder
	var prevEnd float64
	var space bool
	for _, t := range line {
		if strings.TrimSpace(t.S) == "" {
			space = sb.Len() > 0
			prevEnd = math.Max(prevEnd, t.X+t.W)
			continue
		}
		if sb.Len() > 0 && (space || t.X-prevEnd > math.Max(math.Abs(t.FontSize)*0.2, 1)) {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.S)
		prevEnd = t.X + t.W
		space = false
	}
	return sb.String()
}
