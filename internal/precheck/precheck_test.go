package precheck

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/cvmatch/internal/upload"
)

var defaultConfig = Config{
	MaxSize:           1 << 20,
	AllowedExtensions: []string{"pdf", ".DOCX", "txt"},
}

func pdf(name string) upload.File {
	return upload.FileFromBytes(name, []byte("%PDF-1.7\n1 0 obj\n<<>>\nendobj\n"))
}

func docx(t *testing.T) upload.File {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<w:document/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return upload.FileFromBytes("cv.docx", buf.Bytes())
}

func TestRunAcceptsValidDocuments(t *testing.T) {
	tests := []struct {
		name string
		file upload.File
	}{
		{name: "pdf", file: pdf("resume.pdf")},
		{name: "upper case extension", file: pdf("RESUME.PDF")},
		{name: "docx", file: docx(t)},
		{name: "txt", file: upload.FileFromBytes("notes.txt", []byte("Go developer, 8 years\n"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, Run(nil, Default(defaultConfig), tt.file))
		})
	}
}

func TestRunRejects(t *testing.T) {
	big := upload.FileFromBytes("big.txt", bytes.Repeat([]byte("a"), 2<<20))

	tests := []struct {
		name  string
		file  upload.File
		check string
	}{
		{name: "empty", file: upload.FileFromBytes("resume.pdf", nil), check: "not_empty"},
		{name: "too big", file: big, check: "max_size"},
		{name: "extension", file: pdf("resume.exe"), check: "extension"},
		{name: "no extension", file: pdf("resume"), check: "extension"},
		{name: "content mismatch", file: upload.FileFromBytes("resume.pdf", []byte("just text\n")), check: "content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Run(nil, Default(defaultConfig), tt.file)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrRejected)
			assert.Contains(t, err.Error(), tt.check+":")
		})
	}
}

func TestRunStopsAtFirstRejection(t *testing.T) {
	opened := false
	file := upload.File{
		Name: "empty.pdf",
		Open: func() (io.ReadCloser, error) {
			opened = true
			return io.NopCloser(bytes.NewReader(nil)), nil
		},
	}

	err := Run(nil, Default(defaultConfig), file)
	assert.ErrorIs(t, err, ErrRejected)
	assert.False(t, opened, "content must not be read after an earlier rejection")
}

func TestContentCheckOpenFailure(t *testing.T) {
	file := upload.File{
		Name: "resume.pdf",
		Size: 10,
		Open: func() (io.ReadCloser, error) { return nil, errors.New("permission denied") },
	}

	err := Run(nil, Default(defaultConfig), file)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestDisableByName(t *testing.T) {
	checks := Default(defaultConfig)

	assert.True(t, DisableByName(checks, "content", "skipped from command line"))
	assert.False(t, DisableByName(checks, "unknown", "nothing"))

	assert.NoError(t, Run(nil, checks, upload.FileFromBytes("resume.pdf", []byte("just text\n"))))
}

func TestDefaultWithoutLimits(t *testing.T) {
	checks := Default(Config{})

	assert.NoError(t, Run(nil, checks, upload.FileFromBytes("anything.bin", []byte{1, 2, 3})))
}

func TestDescribe(t *testing.T) {
	checks := Default(Config{MaxSize: 100, AllowedExtensions: []string{"pdf"}})
	DisableByName(checks, "content", "skipped")

	statuses := Describe(checks)
	require.Len(t, statuses, 4)

	assert.Equal(t, Status{Name: "not_empty", Enabled: true}, statuses[0])
	assert.Equal(t, "100", statuses[1].Details["limit"])
	assert.Equal(t, "pdf", statuses[2].Details["allowed"])
	assert.Equal(t, Status{Name: "content", Enabled: false}, statuses[3])

	unlimited := Describe(Default(Config{}))
	assert.False(t, unlimited[1].Enabled)
	assert.Equal(t, "no size limit configured", unlimited[1].Reason)
}

func TestRunLogsRejection(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)

	err := Run(zap.New(core), Default(defaultConfig), pdf("resume.exe"))
	require.Error(t, err)

	entries := observed.FilterMessage("check step").All()
	require.NotEmpty(t, entries)

	last := entries[len(entries)-1]
	assert.Equal(t, zapcore.InfoLevel, last.Level)
	assert.Equal(t, "extension", last.ContextMap()["name"])
	assert.Equal(t, false, last.ContextMap()["passed"])
	assert.Equal(t, "resume.exe", last.ContextMap()["file_name"])
}
