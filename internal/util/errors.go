package util

import "errors"

var (
	ErrNoExtractableText = errors.New("no extractable text found in PDF")
	ErrNotPDF            = errors.New("Only PDF files are allowed")
)
