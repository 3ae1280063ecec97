package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"medication-tracker/internal/platform/metrics"
)

const (
	DefaultTimeout = 10 * time.Second

	// Tope de bytes leídos de una respuesta, tanto para decodificar
	// como para el cuerpo de HTTPError.
	maxResponseBytes = 1 << 20
)

// Client ejecuta Requests JSON contra un servicio externo.
// Los adapters lo crean una vez y lo reutilizan.
type Client struct {
	HTTP    *http.Client
	BaseURL string // si está vacío, Request.Path debe ser URL absoluta
}

// New crea un Client sin BaseURL: cada Request lleva URL absoluta.
func New(timeout time.Duration) *Client {
	return NewWithTransport(timeout, nil)
}

// NewWithBaseURL crea un Client cuyos Request.Path relativos se
// resuelven contra baseURL. Un baseURL vacío equivale a New.
func NewWithBaseURL(baseURL string, timeout time.Duration) (*Client, error) {
	c := New(timeout)
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return c, nil
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("httpclient: invalid base url: %w", err)
	}
	c.BaseURL = strings.TrimRight(baseURL, "/")
	return c, nil
}

// NewWithTransport usa tr para todos los DoJSON; nil => http.DefaultTransport.
func NewWithTransport(timeout time.Duration, tr http.RoundTripper) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if tr == nil {
		tr = http.DefaultTransport
	}
	return &Client{HTTP: &http.Client{Timeout: timeout, Transport: tr}}
}

// HTTPError es lo que devuelve DoJSON cuando el servicio responde fuera
// de 2xx. Body va recortado y truncado a maxResponseBytes.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("http error: status=%d body=%s", e.StatusCode, e.Body)
}

// Request describe un request JSON.
// Path puede ser URL absoluta o path relativo si BaseURL está seteado.
// Body nil => sin body. Out nil => se ignora la respuesta.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string
	Body    any
	Out     any
}

// DoJSON ejecuta req y decodifica la respuesta en req.Out.
// Retorna *HTTPError si status no es 2xx.
func (c *Client) DoJSON(ctx context.Context, r Request) error {
	if c == nil || c.HTTP == nil {
		return errors.New("httpclient: nil client")
	}

	method := strings.ToUpper(strings.TrimSpace(r.Method))
	if method == "" {
		method = http.MethodGet
	}
	in, out := r.Body, r.Out

	fullURL, err := c.resolveURL(r.Path)
	if err != nil {
		return err
	}
	if len(r.Query) > 0 {
		fullURL += "?" + r.Query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: marshal json: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return fmt.Errorf("httpclient: new request: %w", err)
	}

	// Defaults
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Extra headers
	for k, v := range r.Headers {
		if strings.TrimSpace(k) == "" {
			continue
		}
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	metrics.OutboundDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.OutboundRequests.WithLabelValues(method, "error").Inc()
		return fmt.Errorf("httpclient: do request: %w", err)
	}
	defer resp.Body.Close()
	metrics.OutboundRequests.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	if out == nil {
		return nil
	}
	if len(raw) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("httpclient: unmarshal json: %w", err)
	}

	return nil
}

// resolveURL arma la URL final de un Request.Path: absoluta tal cual,
// relativa contra BaseURL.
func (c *Client) resolveURL(path string) (string, error) {
	path = strings.TrimSpace(path)
	switch {
	case path == "":
		return "", errors.New("httpclient: empty request path")
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		return path, nil
	case c.BaseURL == "":
		return "", fmt.Errorf("httpclient: relative path %q without BaseURL", path)
	}
	return c.BaseURL + "/" + strings.TrimLeft(path, "/"), nil
}
