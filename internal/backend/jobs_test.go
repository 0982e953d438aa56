package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddJobURL(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, apiJobResourceURLPath, r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "https://jobs.example.com/1", body["url"])

		writeJSON(w, http.StatusCreated, map[string]any{
			"id": 9, "type": "url", "content": body["url"], "created_at": "2024-02-02T10:00:00",
		})
	}))

	res, err := c.AddJobURL(context.Background(), " https://jobs.example.com/1 ")
	require.NoError(t, err)
	assert.Equal(t, &JobResource{ID: 9, Type: JobResourceURL, Content: "https://jobs.example.com/1", CreatedAt: "2024-02-02T10:00:00"}, res)
}

func TestAddJobURLRejectsInvalid(t *testing.T) {
	c := New(Config{APIURL: "http://127.0.0.1:1"}, nil, nil)

	for _, raw := range []string{"ftp://example.com", "jobs.example.com/1", "https://"} {
		_, err := c.AddJobURL(context.Background(), raw)
		assert.Error(t, err, raw)
	}
}

func TestAddJobDocument(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, apiJobResourceDocumentPath, r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, JobResourceDocument, r.FormValue("type"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "posting.txt", header.Filename)
		assert.Equal(t, "Senior Go engineer", string(data))

		writeJSON(w, http.StatusCreated, map[string]any{"id": 3, "type": "document", "content": "posting.txt"})
	}))

	res, err := c.AddJobDocument(context.Background(), JobDocument{
		FileName: "posting.txt",
		Content:  strings.NewReader("Senior Go engineer"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.ID)
	assert.Equal(t, JobResourceDocument, res.Type)
}

func TestJobResourcesAndDelete(t *testing.T) {
	var deleted string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deleted = r.URL.Path
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 2, "type": "url", "content": "https://a.example"},
			{"id": 1, "type": "document", "content": "b.pdf"},
		})
	}))

	res, err := c.JobResources(context.Background())
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "https://a.example", res[0].Content)

	require.NoError(t, c.DeleteJobResource(context.Background(), 2))
	assert.Equal(t, "/api/job-resources/2", deleted)
}

func TestAnalyzeJob(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body analyzeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, analyzeRequest{JobURL: "https://a.example", CVID: 4}, body)

		writeJSON(w, http.StatusOK, map[string]any{
			"matchScore":    "66.67",
			"matches":       []string{"5+ years of Go", "Kubernetes in production"},
			"opportunities": []string{"Experience with Kafka"},
			"extra":         "kept",
		})
	}))

	analysis, err := c.AnalyzeJob(context.Background(), "https://a.example", 4)
	require.NoError(t, err)
	assert.InDelta(t, 66.67, analysis.MatchScore, 1e-9)
	assert.Equal(t, []string{"5+ years of Go", "Kubernetes in production"}, analysis.Matches)
	assert.Equal(t, []string{"Experience with Kafka"}, analysis.Opportunities)
	assert.Empty(t, analysis.MissingKeywords)
	assert.Equal(t, "kept", analysis.Raw["extra"])
}

func TestAnalyzeJobValidatesInput(t *testing.T) {
	c := New(Config{}, nil, nil)

	_, err := c.AnalyzeJob(context.Background(), "", 1)
	require.Error(t, err)

	_, err = c.AnalyzeJob(context.Background(), "https://a.example", 0)
	require.Error(t, err)
}
