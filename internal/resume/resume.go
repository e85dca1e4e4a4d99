// Package resume extracts plain text from PDF résumés.
package resume

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MaxSize is the largest résumé accepted, in bytes.
const MaxSize = 10 << 20

var (
	// ErrNotPDF is returned for input that does not start with a PDF header.
	ErrNotPDF = errors.New("not a PDF document")
	// ErrTooLarge is returned for input over MaxSize.
	ErrTooLarge = errors.New("resume exceeds maximum size")
	// ErrNoText is returned when a PDF has no extractable text, e.g. a scan.
	ErrNoText = errors.New("no text found in PDF")
)

var pdfMagic = []byte("%PDF-")

// ExtractText returns the whitespace-normalized text of a PDF held in memory.
func ExtractText(data []byte) (string, error) {
	if len(data) > MaxSize {
		return "", ErrTooLarge
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return "", ErrNotPDF
	}

	raw, err := plainText(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	text := normalizeWhitespace(raw)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// ExtractFile reads the PDF at path and returns its text.
func ExtractFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open resume: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxSize+1))
	if err != nil {
		return "", fmt.Errorf("read resume: %w", err)
	}
	return ExtractText(data)
}

// plainText runs the PDF parser. The parser panics on some malformed
// documents; those panics are reported as errors.
func plainText(r io.ReaderAt, size int64) (text string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("parse pdf: %v", p)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}
	rs, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rs); err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	return buf.String(), nil
}

// normalizeWhitespace collapses runs of spaces and tabs and drops blank
// lines, keeping one line per text line.
func normalizeWhitespace(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
