package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"time"

	"github.com/golang/glog"
	"github.com/oklog/ulid/v2"

	"github.com/careervault/vault/internal/dtos"
	"github.com/careervault/vault/internal/models"
)

const (
	defaultHTTPTimeout        = 30 * time.Second
	defaultHTTPConnectTimeout = 5 * time.Second
	defaultHTTPTLSTimeout     = 5 * time.Second

	// TTL assumed for signed links when the remote does not report one.
	defaultSignedURLTTL = 5 * time.Minute
)

// see https://medium.com/@nate510/don-t-use-go-s-default-http-client-4804cb19f779
func defaultClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout: defaultHTTPConnectTimeout,
	}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: defaultHTTPTLSTimeout,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// Client is the HTTP SyncGateway against the remote vault API. The session's
// verified email is attached to every call; every request carries a ulid
// correlation id so client and server logs can be lined up.
type Client struct {
	baseURL      string
	email        string
	httpClient   *http.Client
	signedURLTTL time.Duration
}

type ClientOption func(*Client)

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient = defaultClient(timeout)
	}
}

func WithSignedURLTTL(ttl time.Duration) ClientOption {
	return func(c *Client) {
		c.signedURLTTL = ttl
	}
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:      baseURL,
		httpClient:   defaultClient(defaultHTTPTimeout),
		signedURLTTL: defaultSignedURLTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetIdentity sets the verified email attached to subsequent calls.
func (c *Client) SetIdentity(email string) {
	c.email = email
}

// errorEnvelope is the remote's failure body.
type errorEnvelope struct {
	Error string `json:"error"`
}

// do runs one JSON round trip. A nil in skips the request body, a nil out
// discards the response body. Failures come back already classified.
func (c *Client) do(ctx context.Context, op string, method string, path string, in any, out any) *Error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return Validationf(op, "encode request: %v", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.send(ctx, op, method, path, body, contentType, out)
}

func (c *Client) send(ctx context.Context, op string, method string, path string, body io.Reader, contentType string, out any) *Error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return Validationf(op, "build request: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.email != "" {
		req.Header.Set("X-User-Email", c.email)
	}
	requestID := ulid.Make().String()
	req.Header.Set("X-Request-Id", requestID)

	glog.V(2).Infof("[gateway][%s]%s %s %s", requestID, op, method, path)

	res, err := c.httpClient.Do(req)
	if err != nil {
		glog.V(1).Infof("[gateway][%s]%s transport error: %v", requestID, op, err)
		return classify(op, 0, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return classify(op, 0, err)
	}

	if res.StatusCode >= 400 {
		remote := errorEnvelope{}
		message := res.Status
		if jsonErr := json.Unmarshal(data, &remote); jsonErr == nil && remote.Error != "" {
			message = remote.Error
		}
		glog.V(1).Infof("[gateway][%s]%s remote error: %d %s", requestID, op, res.StatusCode, message)
		return classify(op, res.StatusCode, fmt.Errorf("%s", message))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			// a malformed success body is a server fault, not a refusal
			return classify(op, 0, fmt.Errorf("decode response: %w", err))
		}
	}
	return nil
}

func (c *Client) FetchApplications(ctx context.Context) ([]models.ApplicationRecord, error) {
	records := []models.ApplicationRecord{}
	if err := c.do(ctx, "fetch-applications", http.MethodGet, "/api/applications", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

type createApplicationResult struct {
	Message     string                   `json:"message"`
	Application models.ApplicationRecord `json:"application"`
}

func (c *Client) CreateApplication(ctx context.Context, draft dtos.ApplicationDraft) (models.ApplicationRecord, error) {
	result := createApplicationResult{}
	if err := c.do(ctx, "create-application", http.MethodPost, "/api/applications", draft, &result); err != nil {
		return models.ApplicationRecord{}, err
	}
	return result.Application, nil
}

func (c *Client) PatchApplication(ctx context.Context, id string, patch dtos.RecordPatch) error {
	if err := c.do(ctx, "patch-application", http.MethodPatch, "/api/applications/"+id, patch, nil); err != nil {
		return err
	}
	return nil
}

func (c *Client) DeleteApplication(ctx context.Context, id string) error {
	if err := c.do(ctx, "delete-application", http.MethodDelete, "/api/applications/"+id, nil, nil); err != nil {
		return err
	}
	return nil
}

func (c *Client) FetchResumes(ctx context.Context) ([]models.Resume, error) {
	resumes := []models.Resume{}
	if err := c.do(ctx, "fetch-resumes", http.MethodGet, "/api/resumes", nil, &resumes); err != nil {
		return nil, err
	}
	return resumes, nil
}

type signedURLResult struct {
	SignedURL string `json:"signed_url"`
	// seconds, optional; the configured ttl applies when absent
	ExpiresIn int `json:"expires_in"`
}

func (c *Client) SignedResumeURL(ctx context.Context, resumeID string) (SignedURL, error) {
	result := signedURLResult{}
	err := c.do(ctx, "signed-resume-url", http.MethodGet, "/api/resumes/"+resumeID+"/signed-url", nil, &result)
	if err != nil {
		return SignedURL{}, err
	}
	ttl := c.signedURLTTL
	if result.ExpiresIn > 0 {
		ttl = time.Duration(result.ExpiresIn) * time.Second
	}
	return SignedURL{
		URL:       result.SignedURL,
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

func (c *Client) DeleteResume(ctx context.Context, resumeID string) error {
	if err := c.do(ctx, "delete-resume", http.MethodDelete, "/api/resumes/"+resumeID, nil, nil); err != nil {
		return err
	}
	return nil
}

type uploadResumeResult struct {
	Message string        `json:"message"`
	Resume  models.Resume `json:"resume"`
}

func (c *Client) UploadResume(ctx context.Context, filename string, content []byte) (models.Resume, error) {
	const op = "upload-resume"

	buf := &bytes.Buffer{}
	form := multipart.NewWriter(buf)
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return models.Resume{}, Validationf(op, "build form: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		return models.Resume{}, Validationf(op, "build form: %v", err)
	}
	if err := form.Close(); err != nil {
		return models.Resume{}, Validationf(op, "build form: %v", err)
	}

	result := uploadResumeResult{}
	if err := c.send(ctx, op, http.MethodPost, "/api/resumes", buf, form.FormDataContentType(), &result); err != nil {
		return models.Resume{}, err
	}
	return result.Resume, nil
}

func (c *Client) ParseJobURL(ctx context.Context, url string) (ParsedJob, error) {
	parsed := ParsedJob{}
	err := c.do(ctx, "parse-job-url", http.MethodPost, "/api/parse-url", dtos.ParseURLRequest{URL: url}, &parsed)
	if err != nil {
		return ParsedJob{}, err
	}
	return parsed, nil
}

type verifyIdentityArgs struct {
	Token string `json:"token"`
}

type verifyIdentityResult struct {
	Status string   `json:"status"`
	User   Identity `json:"user"`
}

func (c *Client) VerifyIdentity(ctx context.Context, idToken string) (Identity, error) {
	result := verifyIdentityResult{}
	err := c.do(ctx, "verify-identity", http.MethodPost, "/api/verify-google-token", verifyIdentityArgs{Token: idToken}, &result)
	if err != nil {
		return Identity{}, err
	}
	return result.User, nil
}
