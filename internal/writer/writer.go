// internal/writer/writer.go
package writer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"go.uber.org/zap"

	"github.com/tamzrod/plc-telemetry/internal/record"
)

// maxBodyLog bounds how much of a response body is kept for logs.
const maxBodyLog = 4 << 10

type httpWriter struct {
	cfg    Config
	client *http.Client
	logger *zap.SugaredLogger
}

// New builds an HTTP JSON writer. One POST per record, no retries.
func New(cfg Config, logger *zap.SugaredLogger) (Writer, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.New("writer: url must be http or https")
	}
	if u.Host == "" {
		return nil, errors.New("writer: url has no host")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	client := cleanhttp.DefaultClient()
	client.Timeout = cfg.Timeout

	return &httpWriter{cfg: cfg, client: client, logger: logger}, nil
}

// Post sends rec as one JSON object. Only 201 Created counts as delivered.
func (w *httpWriter) Post(ctx context.Context, rec *record.Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return &PublishError{URL: w.cfg.URL, Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return &PublishError{URL: w.cfg.URL, Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if w.cfg.Token != "" {
		req.Header.Set("Authorization", "Token "+w.cfg.Token)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return &PublishError{URL: w.cfg.URL, Cause: err}
	}
	defer resp.Body.Close()

	text := readBody(resp.Body)

	if resp.StatusCode != http.StatusCreated {
		return &PublishError{URL: w.cfg.URL, Status: resp.StatusCode, Body: text}
	}

	if w.cfg.Verbose {
		w.logger.Infow("record accepted",
			"url", w.cfg.URL,
			"status", resp.StatusCode,
			"body", text,
		)
	}
	return nil
}

// readBody keeps at most maxBodyLog bytes and drains the rest so the
// connection can be reused.
func readBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, maxBodyLog))
	_, _ = io.Copy(io.Discard, r)
	return strings.TrimSpace(string(b))
}
