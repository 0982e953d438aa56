package backend

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

const apiAnalyzeJobPath = "/api/analyze-job"

// Analysis is the backend's verdict on a CV against a posting. Matches are the
// posting's requirements found in the CV, Opportunities the ones that are not.
// Raw keeps the whole payload for fields added by newer backends.
type Analysis struct {
	MatchScore      float64        `json:"matchScore"`
	Matches         []string       `json:"matches"`
	Opportunities   []string       `json:"opportunities"`
	MissingKeywords []string       `json:"missingKeywords"`
	Raw             map[string]any `json:"-"`
}

type analyzeRequest struct {
	JobURL string `json:"job_url"`
	CVID   int64  `json:"cv_id"`
}

func (c *Client) AnalyzeJob(ctx context.Context, jobURL string, cvID int64) (*Analysis, error) {
	jobURL = strings.TrimSpace(jobURL)
	if jobURL == "" {
		return nil, errors.New("job url is required")
	}
	if cvID <= 0 {
		return nil, errors.New("cv id is required")
	}

	var raw map[string]any
	req := c.request(ctx).SetBody(analyzeRequest{JobURL: jobURL, CVID: cvID})
	if err := c.execute(req, http.MethodPost, apiAnalyzeJobPath, &raw); err != nil {
		return nil, err
	}

	var analysis Analysis
	if err := decodeLoose(raw, &analysis); err != nil {
		return nil, err
	}
	analysis.Raw = raw

	return &analysis, nil
}
