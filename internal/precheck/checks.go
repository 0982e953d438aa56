package precheck

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/spigell/cvmatch/internal/upload"
)

// switchable carries the enabled flag shared by all checks.
type switchable struct {
	disabled bool
	reason   string
}

func (s *switchable) Disable(reason string) {
	s.disabled = true
	s.reason = reason
}

func (s *switchable) IsEnabled() bool { return !s.disabled }

type notEmptyCheck struct {
	switchable
}

// NewNotEmpty rejects zero-length files.
func NewNotEmpty() Check {
	return &notEmptyCheck{}
}

func (c *notEmptyCheck) Name() string { return "not_empty" }

func (c *notEmptyCheck) Apply(file upload.File) error {
	if file.Size <= 0 {
		return rejected("%s is empty", file.Name)
	}
	return nil
}

type maxSizeCheck struct {
	switchable
	limit int64
}

// NewMaxSize rejects files larger than limit bytes. A non-positive limit
// disables the check.
func NewMaxSize(limit int64) Check {
	c := &maxSizeCheck{limit: limit}
	if limit <= 0 {
		c.Disable("no size limit configured")
	}
	return c
}

func (c *maxSizeCheck) Name() string { return "max_size" }

func (c *maxSizeCheck) Apply(file upload.File) error {
	if file.Size > c.limit {
		return rejected("%s is %d bytes, the limit is %d", file.Name, file.Size, c.limit)
	}
	return nil
}

func (c *maxSizeCheck) Status() Status {
	return Status{
		Name:    c.Name(),
		Enabled: c.IsEnabled(),
		Reason:  c.reason,
		Details: map[string]string{"limit": strconv.FormatInt(c.limit, 10)},
	}
}

type extensionCheck struct {
	switchable
	allowed []string
}

// NewExtension accepts only the listed extensions. An empty list disables the check.
func NewExtension(allowed []string) Check {
	c := &extensionCheck{allowed: normalizeExtensions(allowed)}
	if len(c.allowed) == 0 {
		c.Disable("no extensions configured")
	}
	return c
}

func (c *extensionCheck) Name() string { return "extension" }

func (c *extensionCheck) Apply(file upload.File) error {
	ext := extensionOf(file.Name)
	for _, allowed := range c.allowed {
		if ext == allowed {
			return nil
		}
	}
	return rejected("unsupported file type %q, allowed: %s", ext, strings.Join(c.allowed, ", "))
}

func (c *extensionCheck) Status() Status {
	return Status{
		Name:    c.Name(),
		Enabled: c.IsEnabled(),
		Reason:  c.reason,
		Details: map[string]string{"allowed": strings.Join(c.allowed, ",")},
	}
}

// contentTypes lists the detected types accepted for each extension. Older
// docx writers produce archives mimetype reports as plain zip.
var contentTypes = map[string][]string{
	"pdf":  {"application/pdf"},
	"docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
	"txt":  {"text/plain"},
}

type contentCheck struct {
	switchable
}

// NewContent sniffs the file and rejects it when the content does not match
// its extension. Unknown extensions are left to the extension check.
func NewContent() Check {
	return &contentCheck{}
}

func (c *contentCheck) Name() string { return "content" }

func (c *contentCheck) Apply(file upload.File) error {
	ext := extensionOf(file.Name)
	accepted, known := contentTypes[ext]
	if !known {
		return nil
	}

	mtype, err := detect(file)
	if err != nil {
		return err
	}

	for _, want := range accepted {
		if mtype.Is(want) {
			return nil
		}
	}
	return rejected("%s looks like %s, not %s", file.Name, mtype.String(), ext)
}

func detect(file upload.File) (*mimetype.MIME, error) {
	if file.Open == nil {
		return nil, fmt.Errorf("file %s cannot be read", file.Name)
	}

	r, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", file.Name, err)
	}
	defer r.Close()

	mtype, err := mimetype.DetectReader(r)
	if err != nil {
		return nil, fmt.Errorf("detect content type of %s: %w", file.Name, err)
	}
	return mtype, nil
}

func extensionOf(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

func normalizeExtensions(in []string) []string {
	out := make([]string, 0, len(in))
	for _, ext := range in {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			out = append(out, ext)
		}
	}
	return out
}
