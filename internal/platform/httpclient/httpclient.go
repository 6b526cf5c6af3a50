// Package httpclient es el cliente JSON que comparten los adapters salientes
// (identity provider, webhook de notificaciones).
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
	"strings"
	"time"

	"adopta-api/internal/platform/logger"

	"go.uber.org/zap"
)

const (
	DefaultTimeout = 10 * time.Second

	maxResponseBytes = 1 << 20
)

var ErrNilClient = errors.New("httpclient: nil client")

// Client habla JSON con un upstream. BaseURL es opcional: sin ella,
// Request.Path tiene que ser una URL absoluta.
type Client struct {
	http    *http.Client
	baseURL string
	name    string
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithTransport permite inyectar un RoundTripper (tests, proxies).
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		if rt != nil {
			c.http.Transport = rt
		}
	}
}

// WithName etiqueta los logs del upstream.
func WithName(name string) Option {
	return func(c *Client) { c.name = strings.TrimSpace(name) }
}

// New valida baseURL (si viene) y aplica las opciones.
func New(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		http: &http.Client{Timeout: DefaultTimeout},
		name: "upstream",
	}

	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		if err := ValidateURL(baseURL); err != nil {
			return nil, err
		}
		c.baseURL = strings.TrimRight(baseURL, "/")
	}

	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// ValidateURL exige una URL absoluta http(s).
func ValidateURL(raw string) error {
	u, err := url.ParseRequestURI(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid url %q: scheme must be http(s)", raw)
	}
	return nil
}

func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL
}

// Request describe una llamada. Body se serializa como JSON si no es nil;
// Into recibe la respuesta decodificada si no es nil.
type Request struct {
	Method string
	Path   string
	Header map[string]string
	Body   any
	Into   any
}

// HTTPError representa una respuesta no-2xx.
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

// StatusOf devuelve el status de un *HTTPError en la cadena, o 0.
func StatusOf(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	return 0
}

// Do ejecuta la llamada. Cualquier status fuera de 2xx vuelve como *HTTPError.
func (c *Client) Do(ctx context.Context, r Request) error {
	if c == nil || c.http == nil {
		return ErrNilClient
	}

	target, err := c.resolve(r.Path)
	if err != nil {
		return err
	}
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if r.Body != nil {
		b, err := json.Marshal(r.Body)
		if err != nil {
			return fmt.Errorf("httpclient: marshal json: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("httpclient: new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.Header {
		if strings.TrimSpace(k) != "" {
			req.Header.Set(k, v)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.FromContext(ctx).Debug("upstream call failed",
			zap.String("upstream", c.name),
			zap.String("method", method),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return fmt.Errorf("httpclient: do request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))

	logger.FromContext(ctx).Debug("upstream call",
		zap.String("upstream", c.name),
		zap.String("method", method),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if r.Into == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, r.Into); err != nil {
		return fmt.Errorf("httpclient: unmarshal json: %w", err)
	}
	return nil
}

func (c *Client) resolve(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return c.baseURL, c.requireBase()
	}
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p, nil
	}
	if err := c.requireBase(); err != nil {
		return "", err
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return c.baseURL + p, nil
}

func (c *Client) requireBase() error {
	if c.baseURL == "" {
		return errors.New("httpclient: relative path requires a base url")
	}
	return nil
}
