// Package n8n is the client for the workflow engine that transcribes and
// analyses meetings and records occurrence feedback
package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bluebird/internal/platform/config"
	perr "bluebird/internal/platform/errors"
	"bluebird/internal/platform/logger"
	"bluebird/internal/platform/resilience"

	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUA        = "bluebird-api"
	defaultRate      = 5
	defaultBurst     = 10
	maxErrorBodySize = 2048
)

// Origin types accepted by the engine
const (
	TypeTranscript = "TRANSCRIPT"
	TypeMedia      = "MEDIA"
	TypeFile       = "FILE"
)

// Options configures the Client
type Options struct {
	WebhookURL  string
	FeedbackURL string
	Timeout     time.Duration
	UserAgent   string

	// outbound throttle shared by all calls
	RatePerSec float64
	Burst      int

	Resilience resilience.Config
	Location   *time.Location
}

// OptionsFromConf reads N8N_* style keys from cfg, e.g. config.New().Prefix("N8N_")
func OptionsFromConf(cfg config.Conf) Options {
	return Options{
		WebhookURL:  cfg.MayString("WEBHOOK_URL", ""),
		FeedbackURL: cfg.MayString("FEEDBACK_URL", ""),
		Timeout:     cfg.MayDuration("TIMEOUT", defaultTimeout),
		RatePerSec:  cfg.MayFloat64("RATE_PER_SEC", defaultRate),
		Burst:       cfg.MayInt("BURST", defaultBurst),
		Resilience:  resilience.FromConf(cfg),
	}
}

// Client talks to the n8n webhooks
type Client struct {
	http    *http.Client
	opts    Options
	limiter *rate.Limiter
	exec    *resilience.Executor
	log     logger.Logger
	now     func() time.Time
}

// NewClient fills defaults and builds the client
func NewClient(o Options) *Client {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.RatePerSec <= 0 {
		o.RatePerSec = defaultRate
	}
	if o.Burst <= 0 {
		o.Burst = defaultBurst
	}
	if o.Location == nil {
		o.Location = SaoPaulo()
	}
	if o.Resilience.RetryMaxAttempts == 0 {
		o.Resilience = resilience.DefaultConfig()
	}
	return &Client{
		http:    &http.Client{Timeout: o.Timeout},
		opts:    o,
		limiter: rate.NewLimiter(rate.Limit(o.RatePerSec), o.Burst),
		exec:    resilience.NewExecutor(o.Resilience),
		log:     *logger.Named("n8n"),
		now:     time.Now,
	}
}

// SaoPaulo returns the America/Sao_Paulo zone, or a fixed -03:00 zone when
// tzdata is missing
func SaoPaulo() *time.Location {
	if loc, err := time.LoadLocation("America/Sao_Paulo"); err == nil {
		return loc
	}
	return time.FixedZone("BRT", -3*60*60)
}

// Timestamp renders t as Sao Paulo wall time with a literal -03:00 offset,
// the format the workflow expects
func Timestamp(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02T15:04:05") + "-03:00"
}

// DocumentID accepts both numeric and quoted ids from the engine
type DocumentID int64

// UnmarshalJSON implements json.Unmarshaler
func (d *DocumentID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("document id %q: %w", s, err)
	}
	*d = DocumentID(n)
	return nil
}

// Submission is the engine's answer to a new analysis
type Submission struct {
	ID      DocumentID `json:"id"`
	Status  string     `json:"status"`
	Message string     `json:"message,omitempty"`
}

// Feedback is a like or dislike on an occurrence
type Feedback struct {
	OccurrenceID    int64  `json:"occurrence_id"`
	FeedbackType    string `json:"feedback_type"`
	FeedbackContent string `json:"feedback_content"`
}

// FeedbackAck is the engine's answer to feedback
type FeedbackAck struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// StatusError is a non 2xx answer from the engine
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("n8n %s: status %d", e.Op, e.Code)
	}
	return fmt.Sprintf("n8n %s: status %d: %s", e.Op, e.Code, e.Body)
}

// SubmitTranscript posts a text transcript for analysis
func (c *Client) SubmitTranscript(ctx context.Context, name, transcript string) (Submission, error) {
	if c.opts.WebhookURL == "" {
		return Submission{}, perr.Unavailablef("analysis engine not configured")
	}
	body, err := json.Marshal(map[string]string{
		"timestamp":  Timestamp(c.now(), c.opts.Location),
		"name":       name,
		"type":       TypeTranscript,
		"transcript": transcript,
	})
	if err != nil {
		return Submission{}, perr.Wrap(err, perr.ErrorCodeJSON, "encode transcript")
	}

	var out Submission
	err = c.call(ctx, "submit_transcript", classify, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.WebhookURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, func(raw []byte) error { return decodeSubmission(raw, &out) })
	return out, err
}

// SubmitFile streams a media or document file for analysis. The body is
// not replayable so transport failures are not retried
func (c *Client) SubmitFile(ctx context.Context, name, kind, filename string, file io.Reader) (Submission, error) {
	if c.opts.WebhookURL == "" {
		return Submission{}, perr.Unavailablef("analysis engine not configured")
	}
	if kind != TypeMedia && kind != TypeFile {
		return Submission{}, perr.WithField(perr.InvalidArgf("type must be MEDIA or FILE"), "type")
	}
	ts := Timestamp(c.now(), c.opts.Location)

	var out Submission
	noRetry := func(err error) resilience.Classification {
		cl := classify(err)
		cl.Retryable = false
		return cl
	}
	err := c.call(ctx, "submit_file", noRetry, func(ctx context.Context) (*http.Request, error) {
		pr, pw := io.Pipe()
		mw := multipart.NewWriter(pw)
		go func() {
			pw.CloseWithError(writeForm(mw, ts, name, kind, filename, file))
		}()
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.WebhookURL, pr)
		if err != nil {
			_ = pr.Close()
			return nil, err
		}
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return req, nil
	}, func(raw []byte) error { return decodeSubmission(raw, &out) })
	return out, err
}

// SendFeedback forwards occurrence feedback
func (c *Client) SendFeedback(ctx context.Context, fb Feedback) (FeedbackAck, error) {
	if c.opts.FeedbackURL == "" {
		return FeedbackAck{}, perr.Unavailablef("feedback endpoint not configured")
	}
	body, err := json.Marshal(fb)
	if err != nil {
		return FeedbackAck{}, perr.Wrap(err, perr.ErrorCodeJSON, "encode feedback")
	}

	var out FeedbackAck
	err = c.call(ctx, "send_feedback", classify, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.FeedbackURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, func(raw []byte) error {
		if len(bytes.TrimSpace(raw)) == 0 {
			out = FeedbackAck{Success: true}
			return nil
		}
		if err := json.Unmarshal(raw, &out); err != nil {
			out = FeedbackAck{Success: true, Message: strings.TrimSpace(string(raw))}
		}
		return nil
	})
	return out, err
}

// call runs one request through the limiter, retry and breaker.
// build is invoked per attempt; decode sees the 2xx body
func (c *Client) call(
	ctx context.Context,
	op string,
	cl resilience.Classifier,
	build func(context.Context) (*http.Request, error),
	decode func([]byte) error,
) error {
	err := c.exec.Execute(ctx, "n8n."+op, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return perr.Wrap(err, perr.ErrorCodeTooManyRequests, "n8n rate limit wait")
		}
		req, err := build(ctx)
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnknown, "n8n %s request", op)
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Accept", "application/json")

		start := c.now()
		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		c.log.Debug().
			Str("op", op).
			Int("status", resp.StatusCode).
			Dur("latency", c.now().Sub(start)).
			Msg("n8n http response")

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			tail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
			return &StatusError{Op: op, Code: resp.StatusCode, Body: strings.TrimSpace(string(tail))}
		}
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return decode(raw)
	}, cl)
	if err == nil {
		return nil
	}

	var se *StatusError
	switch {
	case errors.As(err, &se):
		c.log.Warn().Str("op", op).Int("status", se.Code).Msg("n8n rejected request")
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "analysis engine returned %d", se.Code)
	case perr.CodeOf(err) != perr.ErrorCodeUnknown:
		return err
	default:
		c.log.Warn().Str("op", op).Err(err).Msg("n8n transport error")
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "analysis engine unreachable")
	}
}

// classify retries transport failures, 5xx and 429. Other statuses are
// final but still count against the breaker
func classify(err error) resilience.Classification {
	var se *StatusError
	if errors.As(err, &se) {
		retry := se.Code >= 500 || se.Code == http.StatusTooManyRequests
		return resilience.Classification{Retryable: retry, RecordFailure: true}
	}
	if errors.Is(err, context.Canceled) {
		return resilience.Classification{}
	}
	var ne net.Error
	if errors.As(err, &ne) || errors.Is(err, io.ErrUnexpectedEOF) {
		return resilience.Classification{Retryable: true, RecordFailure: true}
	}
	return resilience.Classify(err)
}

// decodeSubmission tolerates an empty or non JSON 2xx body as "running"
func decodeSubmission(raw []byte, out *Submission) error {
	*out = Submission{Status: "running"}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var s Submission
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	if s.Status == "" {
		s.Status = "running"
	}
	*out = s
	return nil
}

func writeForm(mw *multipart.Writer, ts, name, kind, filename string, file io.Reader) error {
	for _, kv := range [][2]string{{"timestamp", ts}, {"name", name}, {"type", kind}} {
		if err := mw.WriteField(kv[0], kv[1]); err != nil {
			return err
		}
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	return mw.Close()
}
