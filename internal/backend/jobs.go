package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	apiJobResourcesPath        = "/api/job-resources"
	apiJobResourceURLPath      = "/api/job-resources/url"
	apiJobResourceDocumentPath = "/api/job-resources/document"

	JobResourceURL      = "url"
	JobResourceDocument = "document"
)

// JobResource is a job posting registered by URL or by file. Content holds the
// URL or the stored file name depending on Type.
type JobResource struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

type JobDocument struct {
	FileName    string
	ContentType string
	Content     io.Reader
}

// AddJobURL registers a posting by its URL. Only http(s) URLs are accepted by
// the backend, so anything else is rejected before sending.
func (c *Client) AddJobURL(ctx context.Context, raw string) (*JobResource, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse job url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid job url %q: http or https url expected", raw)
	}

	var resource JobResource
	req := c.request(ctx).SetBody(map[string]string{"url": raw})
	if err := c.executeLoose(req, http.MethodPost, apiJobResourceURLPath, &resource); err != nil {
		return nil, err
	}

	return &resource, nil
}

func (c *Client) AddJobDocument(ctx context.Context, doc JobDocument) (*JobResource, error) {
	if doc.Content == nil {
		return nil, errors.New("job document content is required")
	}

	contentType := doc.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	req := c.request(ctx).
		SetMultipartField("file", doc.FileName, contentType, doc.Content).
		SetFormData(map[string]string{"type": JobResourceDocument})

	var resource JobResource
	if err := c.executeLoose(req, http.MethodPost, apiJobResourceDocumentPath, &resource); err != nil {
		return nil, err
	}

	return &resource, nil
}

func (c *Client) JobResources(ctx context.Context) ([]*JobResource, error) {
	var resources []*JobResource
	if err := c.executeLoose(c.request(ctx), http.MethodGet, apiJobResourcesPath, &resources); err != nil {
		return nil, err
	}

	return resources, nil
}

func (c *Client) DeleteJobResource(ctx context.Context, id int64) error {
	path := fmt.Sprintf("%s/%d", apiJobResourcesPath, id)
	return c.execute(c.request(ctx), http.MethodDelete, path, nil)
}
