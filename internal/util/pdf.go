package util

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

type PDFInfo struct {
	Pages   int
	HasText bool
}

// ExtractPDFTextBytes returns the sanitized plain text of every page.
func ExtractPDFTextBytes(b []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	return plainText(r)
}

// CheckPDF reports page count and whether any text can be extracted. A PDF with
// pages but no text is still valid, it just won't answer questions.
func CheckPDF(path string) (PDFInfo, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return PDFInfo{}, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()
	info := PDFInfo{Pages: r.NumPage()}
	text, err := plainText(r)
	switch {
	case err == nil:
		info.HasText = text != ""
	case errors.Is(err, ErrNoExtractableText):
	default:
		return info, err
	}
	return info, nil
}

func plainText(r *pdf.Reader) (string, error) {
	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	buf := new(strings.Builder)
	if _, err := io.Copy(buf, reader); err != nil {
		return "", fmt.Errorf("read extracted text: %w", err)
	}
	text := cleanText(buf.String())
	if text == "" {
		return "", ErrNoExtractableText
	}
	return text, nil
}

// cleanText drops NUL and the other control runes extractors leave behind,
// keeping line breaks and tabs.
func cleanText(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s))
}
