// Package creditreporttest builds small text PDFs for tests.
package creditreporttest

import (
	"bytes"
	"fmt"
	"strings"
)

// PDF returns a PDF with one page per entry of pages; each string is one line of
// Helvetica text. The output is a plain PDF 1.4 file with a classic xref table.
// Glyph widths are monospaced apart from the space, so printable ASCII lays out
// with real positions.
func PDF(pages ...[]string) []byte {
	var objs []string
	// 1 catalog, 2 page tree, 3 font, then a page and a content stream per page
	objs = append(objs, "<< /Type /Catalog /Pages 2 0 R >>", "", font())

	kids := make([]string, 0, len(pages))
	for _, lines := range pages {
		pageNum := len(objs) + 1
		kids = append(kids, fmt.Sprintf("%d 0 R", pageNum))
		objs = append(objs, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			pageNum+1))

		var content strings.Builder
		content.WriteString("BT\n/F1 10 Tf\n50 760 Td\n")
		for i, line := range lines {
			if i > 0 {
				content.WriteString("0 -14 Td\n")
			}
			fmt.Fprintf(&content, "(%s) Tj\n", escape(line))
		}
		content.WriteString("ET\n")
		objs = append(objs, fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()))
	}
	objs[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, body := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func font() string {
	widths := []string{"278"}
	for c := '!'; c <= '~'; c++ {
		widths = append(widths, "500")
	}
	return fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [%s] >>",
		strings.Join(widths, " "))
}

// Lines splits text into lines for PDF
func Lines(text string) []string {
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
