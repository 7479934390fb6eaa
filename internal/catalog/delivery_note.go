// internal/catalog/delivery_note.go
package catalog

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/ammerola/shelfscan/internal/core/domain"
)

var (
	noteHeaderRe = regexp.MustCompile(`(?i)\b(gtin|barcode|code)\b.*\b(qty|quantity)\b`)
	noteFooterRe = regexp.MustCompile(`(?i)^(total|subtotal|received by|signature)\b`)
	// [gtin] name qty [yyyy-mm-dd]
	noteLineRe = regexp.MustCompile(`^(?:(\d{8}|\d{12,14})\s+)?(.+?)\s+(\d{1,6})(?:\s+(\d{4}-\d{2}-\d{2}))?$`)
)

// ParseDeliveryNote extracts restock lines from a supplier delivery note PDF
func ParseDeliveryNote(data []byte) ([]domain.RestockLine, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return readDeliveryNote(r)
}

// ParseDeliveryNoteFile reads a delivery note from disk
func ParseDeliveryNoteFile(path string) ([]domain.RestockLine, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()
	return readDeliveryNote(r)
}

func readDeliveryNote(r *pdf.Reader) ([]domain.RestockLine, error) {
	var textLines []string
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from page %d: %w", pageNum, err)
		}
		textLines = append(textLines, strings.Split(text, "\n")...)
	}

	return parseDeliveryLines(textLines), nil
}

// parseDeliveryLines reads item lines between the column header and the
// footer. Without a header every line is considered.
func parseDeliveryLines(lines []string) []domain.RestockLine {
	start := 0
	for i, line := range lines {
		if noteHeaderRe.MatchString(line) {
			start = i + 1
			break
		}
	}

	var out []domain.RestockLine
	for _, raw := range lines[start:] {
		line := strings.Join(strings.Fields(raw), " ")
		if line == "" {
			continue
		}
		if noteFooterRe.MatchString(line) {
			break
		}

		m := noteLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		qty, err := strconv.Atoi(m[3])
		if err != nil {
			continue
		}

		entry := domain.RestockLine{
			GTIN:     m[1],
			Name:     strings.TrimSpace(m[2]),
			Quantity: qty,
		}
		if m[4] != "" {
			if t, err := time.Parse("2006-01-02", m[4]); err == nil {
				entry.ExpiryDate = &t
			}
		}
		out = append(out, entry)
	}

	return out
}
