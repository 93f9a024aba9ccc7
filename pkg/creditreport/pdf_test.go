package creditreport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/creditreport/creditreporttest"
)

func TestExtractTextRejectsBadInput(t *testing.T) {
	cases := map[string][]byte{
		"empty":     nil,
		"too short": []byte("%PD"),
		"not a pdf": []byte("PK\x03\x04 this is a zip archive"),
		"truncated": []byte("%PDF-1.7\n1 0 obj\n<< /Type /Catalog"),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ExtractText(bytes.NewReader(data), int64(len(data)))
			var extErr *ExtractionError
			require.ErrorAs(t, err, &extErr)
			assert.NotEmpty(t, extErr.Reason)
			assert.Contains(t, err.Error(), "cannot read credit report: ")
		})
	}
}

func TestExtractFileMissing(t *testing.T) {
	_, err := ExtractFile(filepath.Join(t.TempDir(), "nope.pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPageText(t *testing.T) {
	glyph := func(s string, x, y, w float64) pdf.Text {
		return pdf.Text{S: s, X: x, Y: y, W: w, FontSize: 10}
	}
	texts := []pdf.Text{
		glyph("$", 20, 680, 5), glyph("5", 25, 680, 5), glyph(",", 30, 680, 2.5),
		glyph("Limit", 55, 700, 20),
		glyph("000", 32.5, 680.4, 15),
		glyph("Credit", 20, 700, 30),
		glyph("Open", 20, 660, 20), glyph(" ", 40, 660, 2.5), glyph("Now", 42.5, 660, 15),
		glyph(" ", 20, 640, 2.5),
	}
	assert.Equal(t, "Credit Limit\n$5,000\nOpen Now\n", pageText(texts))
	assert.Empty(t, pageText(nil))
}

func TestDocumentText(t *testing.T) {
	doc := Document{Pages: []string{"page one", "page two"}}
	assert.Equal(t, "page one\npage two", doc.Text())
}

func TestExtractGeneratedPDF(t *testing.T) {
	data := creditreporttest.PDF(
		[]string{"Personal Credit Report", "* CAPITAL ONE / 1270246 / BC - Bank Credit Cards", "Payment Status: Current"},
		[]string{"Credit Limit $5,000 (estimated)"},
	)

	doc, err := ExtractBytes(data)
	require.NoError(t, err)
	require.Len(t, doc.Pages, 2)
	assert.Equal(t, "Personal Credit Report\n* CAPITAL ONE / 1270246 / BC - Bank Credit Cards\nPayment Status: Current\n", doc.Pages[0])
	assert.Equal(t, "Credit Limit $5,000 (estimated)\n", doc.Pages[1])

	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	fromFile, err := ExtractFile(path)
	require.NoError(t, err)
	assert.Equal(t, doc, fromFile)
}

func TestExtractBlankPDF(t *testing.T) {
	_, err := ExtractBytes(creditreporttest.PDF([]string{}))
	var extErr *ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "PDF contains no extractable text (scanned image?)", extErr.Reason)
}
