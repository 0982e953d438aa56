package backend

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/cvmatch/internal/session"
)

const (
	apiURL    = "http://localhost:5000"
	userAgent = "spigell/cvmatch"
	// Max length of a response body written to debug logs.
	maxLogBody = 300

	requestIDHeader = "X-Request-ID"
)

// Credentials is the process-wide auth state the client reads before every
// request and updates after login or registration.
type Credentials interface {
	CurrentToken() string
	SetToken(token string, user *session.User) error
	ClearToken() error
}

type Config struct {
	APIURL    string
	UserAgent string
	Timeout   time.Duration
	// Transport replaces the default round tripper. Used by tests.
	Transport http.RoundTripper
}

type Client struct {
	http        *resty.Client
	credentials Credentials
	logger      *zap.Logger
	APIURL      string
}

func New(cfg Config, credentials Credentials, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	url := strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if url == "" {
		url = apiURL
	}

	agent := cfg.UserAgent
	if agent == "" {
		agent = userAgent
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		credentials: credentials,
		logger:      logger,
		APIURL:      url,
	}

	c.http = resty.New().
		SetBaseURL(url).
		SetTimeout(timeout).
		SetHeader("User-Agent", agent).
		SetHeader("Accept", "application/json").
		SetLogger(logger.Sugar()).
		OnBeforeRequest(c.authorize)

	if cfg.Transport != nil {
		c.http.SetTransport(cfg.Transport)
	}

	return c
}

// authorize runs before every request sent by the client.
func (c *Client) authorize(_ *resty.Client, req *resty.Request) error {
	req.SetHeader(requestIDHeader, uuid.NewString())

	if c.credentials == nil {
		return nil
	}

	if token := c.credentials.CurrentToken(); token != "" {
		req.SetHeader("Authorization", fmt.Sprintf("Bearer %s", token))
	}

	return nil
}
