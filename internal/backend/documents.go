package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	apiDocumentsPath      = "/api/documents"
	apiDocumentUploadPath = "/api/documents/upload"

	defaultContentType = "application/octet-stream"
)

type DocumentType string

const (
	DocumentTypeCV    DocumentType = "cv"
	DocumentTypeOther DocumentType = "other"
)

// ParseDocumentType accepts the backend spelling and the "resume" alias.
func ParseDocumentType(s string) (DocumentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cv", "resume", "":
		return DocumentTypeCV, nil
	case "other":
		return DocumentTypeOther, nil
	default:
		return "", fmt.Errorf("unknown document type %q", s)
	}
}

type Document struct {
	ID               int64  `json:"id"`
	Filename         string `json:"filename"`
	OriginalFilename string `json:"original_filename"`
	DocumentType     string `json:"document_type"`
	// Type is the older spelling of DocumentType.
	Type             string `json:"type"`
	ProcessingStatus string `json:"processing_status"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

func (d *Document) Name() string {
	if d.Filename != "" {
		return d.Filename
	}
	return d.OriginalFilename
}

func (d *Document) Kind() string {
	if d.DocumentType != "" {
		return d.DocumentType
	}
	return d.Type
}

type UploadRequest struct {
	FileName     string
	ContentType  string
	DocumentType DocumentType
	Content      io.Reader
}

type UploadResponse struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message"`
	Document *Document `json:"document"`
}

// UploadDocument sends the file as a single multipart request.
func (c *Client) UploadDocument(ctx context.Context, in UploadRequest) (*UploadResponse, error) {
	if in.Content == nil {
		return nil, errors.New("upload content is required")
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	req := c.request(ctx).
		SetMultipartField("file", in.FileName, contentType, in.Content).
		SetFormData(map[string]string{"document_type": string(in.DocumentType)})

	var resp UploadResponse
	if err := c.executeLoose(req, http.MethodPost, apiDocumentUploadPath, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *Client) Documents(ctx context.Context) ([]*Document, error) {
	var docs []*Document
	if err := c.executeLoose(c.request(ctx), http.MethodGet, apiDocumentsPath, &docs); err != nil {
		return nil, err
	}

	return docs, nil
}

func (c *Client) DeleteDocument(ctx context.Context, id int64) error {
	path := fmt.Sprintf("%s/%d", apiDocumentsPath, id)
	return c.execute(c.request(ctx), http.MethodDelete, path, nil)
}
