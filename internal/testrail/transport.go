package testrail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/tidwall/gjson"

	"tmsync/pkg/logging"
)

// Transport is the low-level access to the remote API. Paths are relative to
// the API root, e.g. "get_cases/1&suite_id=2".
type Transport interface {
	SendGet(ctx context.Context, path string) ([]byte, error)
	SendPost(ctx context.Context, path string, body interface{}) ([]byte, error)
}

const apiPrefix = "index.php?/api/v2/"

// TransportConfig configures HTTPTransport.
type TransportConfig struct {
	URL       string
	User      string
	APIKey    string
	Timeout   time.Duration
	UserAgent string
}

// HTTPTransport talks JSON over HTTP with basic authentication.
type HTTPTransport struct {
	apiRoot   string
	user      string
	apiKey    string
	userAgent string
	client    *http.Client
}

// NewHTTPTransport creates a transport for the given endpoint. The client is
// not shared with http.DefaultClient.
func NewHTTPTransport(cfg TransportConfig) (*HTTPTransport, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("remote URL is required")
	}

	client := cleanhttp.DefaultPooledClient()
	if cfg.Timeout > 0 {
		client.Timeout = cfg.Timeout
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "tmsync"
	}

	return &HTTPTransport{
		apiRoot:   APIRoot(cfg.URL),
		user:      cfg.User,
		apiKey:    cfg.APIKey,
		userAgent: userAgent,
		client:    client,
	}, nil
}

// APIRoot normalises a configured base URL to the API root.
func APIRoot(baseURL string) string {
	if strings.Contains(baseURL, apiPrefix) {
		return baseURL[:strings.Index(baseURL, apiPrefix)+len(apiPrefix)]
	}
	return strings.TrimRight(baseURL, "/") + "/" + apiPrefix
}

// SendGet implements Transport.
func (t *HTTPTransport) SendGet(ctx context.Context, path string) ([]byte, error) {
	return t.do(ctx, http.MethodGet, path, nil)
}

// SendPost implements Transport.
func (t *HTTPTransport) SendPost(ctx context.Context, path string, body interface{}) ([]byte, error) {
	if body == nil {
		body = struct{}{}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &RemoteAPIError{Path: path, Message: "cannot encode request body", Err: err}
	}
	return t.do(ctx, http.MethodPost, path, payload)
}

func (t *HTTPTransport) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.apiRoot+path, body)
	if err != nil {
		return nil, &RemoteAPIError{Path: path, Err: err}
	}
	req.SetBasicAuth(t.user, t.apiKey)
	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	logging.Debug("TestRail", "%s %s", method, path)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &RemoteAPIError{Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RemoteAPIError{Path: path, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := gjson.GetBytes(data, "error").String()
		if msg == "" {
			msg = strings.TrimSpace(string(data))
		}
		return nil, &RemoteAPIError{Path: path, StatusCode: resp.StatusCode, Message: msg}
	}

	return data, nil
}
