// Package service contains the HTTP client for the backup service API.
package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/allisson/mediavault/internal/credentials/domain"
	apperrors "github.com/allisson/mediavault/internal/errors"
)

const defaultTimeout = 30 * time.Second

// HTTPBackupClient implements the backup service API over HTTP. Responses
// with unexpected status codes surface as StatusError; only the copy endpoint
// hands its status code back for the caller to classify.
type HTTPBackupClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPBackupClient creates a new HTTPBackupClient. A nil httpClient gets a
// default with a request timeout.
func NewHTTPBackupClient(baseURL string, httpClient *http.Client) *HTTPBackupClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &HTTPBackupClient{baseURL: baseURL, httpClient: httpClient}
}

// FetchAuthPresentation obtains a credential presentation for the backup id.
// forceRefresh asks the service to skip any cached presentation.
func (c *HTTPBackupClient) FetchAuthPresentation(
	ctx context.Context,
	purpose domain.Purpose,
	backupID []byte,
	forceRefresh bool,
) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/v1/archives/auth/%s?backupId=%s",
		c.baseURL, purpose, url.QueryEscape(base64.StdEncoding.EncodeToString(backupID)))
	if forceRefresh {
		endpoint += "&forceRefresh=true"
	}

	var payload struct {
		Presentation string `json:"presentation"`
	}
	if err := c.getJSON(ctx, endpoint, nil, &payload); err != nil {
		return nil, err
	}

	presentation, err := base64.StdEncoding.DecodeString(payload.Presentation)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decode auth presentation")
	}
	return presentation, nil
}

// FetchCDNReadCredential obtains a fresh CDN read credential.
func (c *HTTPBackupClient) FetchCDNReadCredential(
	ctx context.Context,
	auth domain.ServiceAuth,
	cdnNumber uint32,
) (*domain.ReadCredential, error) {
	endpoint := fmt.Sprintf("%s/v1/archives/cdn/read-auth?cdn=%d", c.baseURL, cdnNumber)

	var credential domain.ReadCredential
	if err := c.getJSON(ctx, endpoint, auth.Headers, &credential); err != nil {
		return nil, err
	}
	return &credential, nil
}

// FetchBackupInfo obtains fresh backup info for the account.
func (c *HTTPBackupClient) FetchBackupInfo(
	ctx context.Context,
	auth domain.ServiceAuth,
) (*domain.BackupInfo, error) {
	endpoint := c.baseURL + "/v1/archives"

	var info domain.BackupInfo
	if err := c.getJSON(ctx, endpoint, auth.Headers, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// CopyToMediaTier asks the service to copy a transit tier object onto the
// media tier. The response status code comes back unclassified.
func (c *HTTPBackupClient) CopyToMediaTier(
	ctx context.Context,
	auth domain.ServiceAuth,
	req domain.CopyRequest,
) (int, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to encode copy request")
	}

	endpoint := c.baseURL + "/v1/archives/media"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to create copy request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for name, value := range auth.Headers {
		httpReq.Header.Set(name, value)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, apperrors.Wrap(err, "copy request failed")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

func (c *HTTPBackupClient) getJSON(
	ctx context.Context,
	endpoint string,
	headers map[string]string,
	dest any,
) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apperrors.Wrap(err, "failed to create request")
	}
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &domain.StatusError{StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return apperrors.Wrap(err, "failed to decode response")
	}
	return nil
}
