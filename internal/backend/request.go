package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/cvmatch/internal/utils"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx)
}

// execute sends req and decodes a successful JSON body into out, if given.
func (c *Client) execute(req *resty.Request, method, path string, out any) error {
	c.logger.Debug("make request", zap.String("method", method), zap.String("path", path))

	resp, err := req.Execute(method, path)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}

	c.logger.Debug("got response from backend",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode()),
		zap.String("body", utils.TruncateForLog(resp.String(), maxLogBody)),
	)

	if !resp.IsSuccess() {
		return statusError(resp, method, path)
	}

	if out == nil || len(resp.Body()) == 0 {
		return nil
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}

	return nil
}

// executeLoose decodes the response through mapstructure, which tolerates
// numeric ids sent as strings and the other shape drift of the backend.
func (c *Client) executeLoose(req *resty.Request, method, path string, out any) error {
	var raw any
	if err := c.execute(req, method, path, &raw); err != nil {
		return err
	}

	return decodeLoose(raw, out)
}

func decodeLoose(input, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("decode backend payload: %w", err)
	}

	return nil
}

// statusError prefers the body's error field, then the legacy message field.
func statusError(resp *resty.Response, method, path string) error {
	var body errorBody
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		message := strings.TrimSpace(body.Error)
		if message == "" {
			message = strings.TrimSpace(body.Message)
		}
		if message != "" {
			return &APIError{StatusCode: resp.StatusCode(), Message: message}
		}
	}

	return &TransportError{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode(),
		Err:        fmt.Errorf("bad status: %s", resp.Status()),
	}
}
