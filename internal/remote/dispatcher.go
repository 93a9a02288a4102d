package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/mcoot/gamehub/internal/endpoint"
	"github.com/mcoot/gamehub/internal/model"
)

// Request describes one logical API call, independent of the endpoint it goes to
type Request struct {
	Method string
	Path   string
	Query  map[string]string
	Body   any
	Token  string

	// Timeout overrides the dispatcher's per-attempt timeout when non-zero
	Timeout time.Duration
}

// Response is the first usable answer of a dispatch
type Response struct {
	Endpoint   endpoint.Descriptor
	StatusCode int
	Body       []byte
	RequestID  string
	Attempts   int
	Duration   time.Duration
}

// DecodeFunc turns a 2xx body into the caller's expected shape.
// A non-nil error marks the answer as malformed.
type DecodeFunc func(body []byte) error

// Validator is implemented by response shapes that need more than a
// successful json.Unmarshal to count as the expected shape
type Validator interface {
	Validate() error
}

// Dispatcher tries an ordered list of endpoints until one answers usefully
type Dispatcher struct {
	client  *resty.Client
	timeout time.Duration
	logger  *slog.Logger
}

// NewDispatcher creates a new dispatcher
func NewDispatcher(client *resty.Client, cfg Config, logger *slog.Logger) *Dispatcher {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = RequestTimeout
	}
	return &Dispatcher{
		client:  client,
		timeout: timeout,
		logger:  logger,
	}
}

// Dispatch sends req to each endpoint in order, one attempt each.
// It returns the first 2xx answer that decode accepts, the first
// definitive failure (401 or 5xx), or an *ExhaustedError.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request, eps []endpoint.Descriptor, decode DecodeFunc) (*Response, error) {
	if len(eps) == 0 {
		return nil, ErrNoEndpoints
	}

	requestID := uuid.NewString()
	start := time.Now()
	var attempts []*Error

	for i, ep := range eps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, attemptErr := d.attempt(ctx, req, ep, requestID, decode)
		if attemptErr == nil {
			resp.Attempts = i + 1
			resp.Duration = time.Since(start)
			return resp, nil
		}

		// The caller gave up; stop rather than blame the endpoint
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		attempts = append(attempts, attemptErr)
		if attemptErr.Definitive() {
			return nil, attemptErr
		}
	}

	exhausted := &ExhaustedError{Attempts: attempts, Last: attempts[len(attempts)-1]}
	d.logger.Warn("all endpoints exhausted",
		"method", req.Method,
		"path", req.Path,
		"attempts", len(attempts),
		"request_id", requestID,
		"last_error", exhausted.Last.Error(),
	)
	return nil, exhausted
}

func (d *Dispatcher) attempt(ctx context.Context, req Request, ep endpoint.Descriptor, requestID string, decode DecodeFunc) (*Response, *Error) {
	timeout := d.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	url := ep.URL(req.Path)
	r := d.client.R().
		SetContext(attemptCtx).
		SetHeader(RequestIDHeader, requestID)
	if len(req.Query) > 0 {
		r.SetQueryParams(req.Query)
	}
	if req.Body != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(req.Body)
	}
	if req.Token != "" {
		r.SetAuthToken(req.Token)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	start := time.Now()
	resp, err := r.Execute(method, url)
	elapsed := time.Since(start)

	log := d.logger.With(
		"endpoint", ep.Name,
		"method", method,
		"url", url,
		"request_id", requestID,
		"duration", elapsed,
	)

	if err != nil {
		attemptErr := classifyTransportError(ep, url, err)
		log.Info("dispatch attempt failed", "kind", attemptErr.Kind.String(), "error", err)
		return nil, attemptErr
	}

	status := resp.StatusCode()
	body := resp.Body()
	log = log.With("status", status)

	if attemptErr := classifyResponse(ep, url, status, resp.Header().Get("Content-Type"), body); attemptErr != nil {
		log.Info("dispatch attempt failed", "kind", attemptErr.Kind.String(), "error", attemptErr.Error())
		return nil, attemptErr
	}

	if decode != nil {
		if err := decode(body); err != nil {
			attemptErr := &Error{
				Kind:       model.KindMalformedResponse,
				Endpoint:   ep,
				URL:        url,
				StatusCode: status,
				Detail:     "response does not match the expected shape",
				Err:        err,
			}
			log.Info("dispatch attempt failed", "kind", attemptErr.Kind.String(), "error", err)
			return nil, attemptErr
		}
	}

	log.Debug("dispatch attempt succeeded")
	return &Response{
		Endpoint:   ep,
		StatusCode: status,
		Body:       body,
		RequestID:  requestID,
	}, nil
}

func classifyTransportError(ep endpoint.Descriptor, url string, err error) *Error {
	kind := model.KindConnectivity
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = model.KindTimeout
	}
	return &Error{Kind: kind, Endpoint: ep, URL: url, Err: err}
}

// classifyResponse returns nil for a 2xx JSON answer (or an empty one)
func classifyResponse(ep endpoint.Descriptor, url string, status int, contentType string, body []byte) *Error {
	e := &Error{Endpoint: ep, URL: url, StatusCode: status}

	switch {
	case status == http.StatusUnauthorized:
		e.Kind = model.KindUnauthorized
		e.ServerMessage = serverMessage(body)
		return e
	case status >= 500:
		e.Kind = model.KindServerError
		e.ServerMessage = serverMessage(body)
		return e
	case status < 200 || status >= 300:
		e.Kind = model.KindRejected
		e.ServerMessage = serverMessage(body)
		if isHTML(contentType, body) {
			e.Detail = htmlDetail(body)
		}
		return e
	}

	if isHTML(contentType, body) {
		e.Kind = model.KindMalformedResponse
		e.Detail = htmlDetail(body)
		return e
	}

	if len(bytes.TrimSpace(body)) > 0 && !json.Valid(body) {
		e.Kind = model.KindMalformedResponse
		e.Detail = fmt.Sprintf("expected JSON, got %q", truncate(string(body), 64))
		return e
	}

	return nil
}

func isHTML(contentType string, body []byte) bool {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil && mediaType == "text/html" {
		return true
	}
	trimmed := bytes.TrimSpace(body)
	return bytes.HasPrefix(bytes.ToLower(trimmed), []byte("<!doctype html")) ||
		bytes.HasPrefix(bytes.ToLower(trimmed), []byte("<html"))
}

// htmlDetail names the HTML page that answered instead of the API
func htmlDetail(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "received an HTML page where JSON was expected"
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return "received an HTML page where JSON was expected"
	}
	return fmt.Sprintf("received HTML page %q where JSON was expected", title)
}

func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Do dispatches req and decodes the first usable answer into a T
func Do[T any](ctx context.Context, d *Dispatcher, req Request, eps []endpoint.Descriptor) (*T, *Response, error) {
	var result T
	decode := func(body []byte) error {
		var zero T
		result = zero
		if len(bytes.TrimSpace(body)) == 0 {
			return errors.New("empty response body")
		}
		if err := json.Unmarshal(body, &result); err != nil {
			return err
		}
		if v, ok := any(&result).(Validator); ok {
			return v.Validate()
		}
		return nil
	}

	resp, err := d.Dispatch(ctx, req, eps, decode)
	if err != nil {
		return nil, nil, err
	}
	return &result, resp, nil
}
