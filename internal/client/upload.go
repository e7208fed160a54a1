package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"

	"studycompanion/internal/models"
)

// UploadPDF sends the document as the multipart field "file". Teachers upload to
// /teacher/upload, everyone else to /student/upload.
func (c *Client) UploadPDF(ctx context.Context, filename string, r io.Reader, userType models.UserType) (models.UploadResponse, error) {
	endpoint := "/student/upload"
	if userType == models.UserTeacher {
		endpoint = "/teacher/upload"
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(filename)))
	h.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(h)
	if err != nil {
		return models.UploadResponse{}, fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return models.UploadResponse{}, fmt.Errorf("copy file into form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return models.UploadResponse{}, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return models.UploadResponse{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out models.UploadResponse
	if err := c.send(req, MsgUploadFailed, detailOnly, &out); err != nil {
		return models.UploadResponse{}, err
	}
	return out, nil
}

func (c *Client) UploadPDFFile(ctx context.Context, path string, userType models.UserType) (models.UploadResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.UploadResponse{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return c.UploadPDF(ctx, path, f, userType)
}
