package backend

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

type ProcessingStatus string

const (
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

// legacyStatuses maps spellings seen in older backend versions onto the
// canonical values.
var legacyStatuses = map[string]ProcessingStatus{
	"pending":   StatusProcessing,
	"uploaded":  StatusProcessing,
	"processed": StatusCompleted,
	"done":      StatusCompleted,
	"error":     StatusFailed,
}

func (s ProcessingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// DocumentStatus is the answer of the status endpoint. Status is the canonical
// field; ProcessingStatus is only read when Status is absent.
type DocumentStatus struct {
	ID               int64  `json:"id"`
	Filename         string `json:"filename"`
	Status           string `json:"status"`
	ProcessingStatus string `json:"processing_status"`
	Error            string `json:"error"`
	Message          string `json:"message"`
}

// Canonical returns the normalized status. Unknown values are non-terminal.
func (s *DocumentStatus) Canonical() ProcessingStatus {
	raw := s.Status
	if strings.TrimSpace(raw) == "" {
		raw = s.ProcessingStatus
	}

	return normalizeStatus(raw)
}

// Detail is the backend's explanation, if any, of a failed status.
func (s *DocumentStatus) Detail() string {
	if s.Error != "" {
		return s.Error
	}
	return s.Message
}

func normalizeStatus(raw string) ProcessingStatus {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch ProcessingStatus(value) {
	case StatusProcessing, StatusCompleted, StatusFailed:
		return ProcessingStatus(value)
	}

	if status, ok := legacyStatuses[value]; ok {
		return status
	}

	return StatusProcessing
}

func (c *Client) DocumentStatus(ctx context.Context, id int64) (*DocumentStatus, error) {
	path := fmt.Sprintf("%s/%d/status", apiDocumentsPath, id)

	var status DocumentStatus
	if err := c.executeLoose(c.request(ctx), http.MethodGet, path, &status); err != nil {
		return nil, err
	}

	return &status, nil
}
