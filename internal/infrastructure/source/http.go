package source

import (
	"context"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/GrayZone-Monitor/pkg/errors"
)

const userAgent = "grayzone-monitor/1.0"

// HTTPSource GETs the snapshot from a URL, retrying network failures and 5xx
// responses with jittered exponential backoff.
type HTTPSource struct {
	url          string
	httpClient   *http.Client
	logger       logging.Logger
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	maxBytes     int64
}

type HTTPOption func(*HTTPSource)

func WithTimeout(d time.Duration) HTTPOption {
	return func(s *HTTPSource) {
		if d > 0 {
			s.httpClient.Timeout = d
		}
	}
}

func WithRetries(n int) HTTPOption {
	return func(s *HTTPSource) {
		if n >= 0 {
			s.retryMax = n
		}
	}
}

func WithRetryWait(min, max time.Duration) HTTPOption {
	return func(s *HTTPSource) {
		s.retryWaitMin, s.retryWaitMax = min, max
	}
}

func WithMaxBytes(n int64) HTTPOption {
	return func(s *HTTPSource) {
		if n > 0 {
			s.maxBytes = n
		}
	}
}

func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		if c != nil {
			s.httpClient = c
		}
	}
}

func NewHTTPSource(rawURL string, log logging.Logger, opts ...HTTPOption) (*HTTPSource, error) {
	if rawURL == "" {
		return nil, errors.New(errors.ErrCodeSourceNotConfigured, "http source requires a url")
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.New(errors.ErrCodeSourceNotConfigured, "http source url is invalid").WithDetail(rawURL)
	}
	s := &HTTPSource{
		url:          rawURL,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		logger:       log.Named("source.http"),
		retryMax:     2,
		retryWaitMin: 500 * time.Millisecond,
		retryWaitMax: 5 * time.Second,
		maxBytes:     DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *HTTPSource) Describe() string { return "http " + s.url }

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= s.retryMax; attempt++ {
		if attempt > 0 {
			backoff := s.backoff(attempt)
			s.logger.Debug("retrying snapshot fetch", logging.Int("attempt", attempt), logging.Duration("backoff", backoff))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, errors.Wrap(ctx.Err(), errors.ErrCodeSnapshotFetch, "snapshot fetch cancelled")
			}
		}

		body, retry, err := s.once(ctx)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry || ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

// once performs a single request.  retry reports whether the failure is
// transient.
func (s *HTTPSource) once(ctx context.Context) (body []byte, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, false, errors.Wrap(err, errors.ErrCodeSnapshotFetch, "failed to build request")
	}
	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, true, errors.Wrap(err, errors.ErrCodeSnapshotFetch, "snapshot request failed").WithDetail(s.url)
	}
	defer resp.Body.Close()

	s.logger.Debug("snapshot response",
		logging.Int("status", resp.StatusCode),
		logging.String("request_id", requestID),
		logging.Duration("elapsed", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		err := errors.New(errors.ErrCodeSnapshotUpstreamError, "snapshot upstream returned "+strconv.Itoa(resp.StatusCode)).WithDetail(s.url)
		return nil, resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, true, errors.Wrap(err, errors.ErrCodeSnapshotFetch, "failed to read snapshot body")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, false, errors.Newf(errors.ErrCodeSnapshotFetch, "snapshot exceeds %d bytes", s.maxBytes)
	}
	return data, false, nil
}

func (s *HTTPSource) backoff(attempt int) time.Duration {
	b := s.retryWaitMin * time.Duration(1<<uint(attempt-1))
	if b > s.retryWaitMax {
		b = s.retryWaitMax
	}
	if b <= 0 {
		return 0
	}
	if q := int64(b / 4); q > 0 {
		b += time.Duration(rand.Int63n(q))
	}
	return b
}

//Personal.AI order the ending
