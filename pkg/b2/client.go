// Copyright 2025 b2gate Authors
// SPDX-License-Identifier: Apache-2.0

// Package b2 implements the four upstream operations the gateway needs:
// account authorization, paginated version listing, download by file id,
// and file version deletion.
package b2

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/LeeDigitalWorks/b2gate/pkg/logger"
)

const (
	// DefaultAuthBaseURL is the public control-plane endpoint. Tests and
	// private deployments override it via Config.AuthBaseURL.
	DefaultAuthBaseURL = "https://api.backblazeb2.com"

	apiPrefix = "/b2api/v2"

	// listPageSize caps the number of records per listing page.
	listPageSize = 100
)

// Config holds configuration for connecting to the upstream store.
type Config struct {
	KeyID        string
	Key          string
	AuthBaseURL  string
	Timeout      time.Duration
	MaxIdleConns int
}

// Client is a process-wide handle to the upstream API. The underlying
// http.Client is shared for connection reuse; credentials and tokens are
// not cached across requests.
type Client struct {
	keyID       string
	key         string
	authBaseURL string

	httpClient *http.Client
}

// NewClient creates a client with a tuned shared transport.
func NewClient(cfg Config) *Client {
	if cfg.AuthBaseURL == "" {
		cfg.AuthBaseURL = DefaultAuthBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Minute
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 100
	}

	return &Client{
		keyID:       cfg.KeyID,
		key:         cfg.Key,
		authBaseURL: cfg.AuthBaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        cfg.MaxIdleConns,
				MaxIdleConnsPerHost: cfg.MaxIdleConns / 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Conn is a request-scoped, session-bound handle. All post-handshake
// operations go through a Conn so the bearer token never outlives the
// inbound request that obtained it.
type Conn struct {
	c    *Client
	sess Session
}

// Session returns the session obtained by the handshake.
func (cn *Conn) Session() Session {
	return cn.sess
}

// Authorize performs the b2_authorize_account handshake and returns a
// session-bound connection. No retry: a failed handshake fails the request.
func (c *Client) Authorize(ctx context.Context) (*Conn, error) {
	if c.keyID == "" || c.key == "" {
		return nil, &AuthError{Reason: "missing application key id or key"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.authBaseURL+apiPrefix+"/b2_authorize_account", nil)
	if err != nil {
		return nil, fmt.Errorf("build authorize request: %w", err)
	}
	req.SetBasicAuth(c.keyID, c.key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("authorize account: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &AuthError{Reason: readAPIError(resp.Body).Message, StatusCode: resp.StatusCode}
	}

	var sess Session
	if err := json.NewDecoder(resp.Body).Decode(&sess); err != nil {
		return nil, fmt.Errorf("decode authorize response: %w", err)
	}

	logger.Ctx(ctx).Debug().
		Str("account_id", sess.AccountID).
		Str("api_url", sess.APIURL).
		Msg("authorized upstream session")

	return &Conn{c: c, sess: sess}, nil
}

// ListPage fetches one page of b2_list_file_versions starting at the given
// cursor. The listing is a prefix match; callers filter for exact names.
func (cn *Conn) ListPage(ctx context.Context, bucketID string, cur Cursor) (*VersionPage, error) {
	body := listFileVersionsRequest{
		BucketID:      bucketID,
		StartFileName: cur.StartName,
		StartFileID:   cur.StartID,
		Prefix:        cur.StartName,
		MaxFileCount:  listPageSize,
	}

	var out listFileVersionsResponse
	if err := cn.postJSON(ctx, "b2_list_file_versions", body, &out); err != nil {
		return nil, err
	}

	return &VersionPage{
		Files:    out.Files,
		NextName: out.NextFileName,
		NextID:   out.NextFileID,
	}, nil
}

// Download fetches the exact bytes of one version by its file id.
func (cn *Conn) Download(ctx context.Context, fileID string) ([]byte, error) {
	u := cn.sess.DownloadURL + apiPrefix + "/b2_download_file_by_id?fileId=" + url.QueryEscape(fileID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}
	req.Header.Set("Authorization", cn.sess.AuthToken)

	resp, err := cn.c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := readAPIError(resp.Body)
		return nil, &UpstreamError{
			Op:         "b2_download_file_by_id",
			StatusCode: resp.StatusCode,
			Code:       apiErr.Code,
			Message:    apiErr.Message,
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read download body for %s: %w", fileID, err)
	}
	return data, nil
}

// Delete removes one file version by id and name.
func (cn *Conn) Delete(ctx context.Context, fileID, fileName string) error {
	body := deleteFileVersionRequest{FileID: fileID, FileName: fileName}
	return cn.postJSON(ctx, "b2_delete_file_version", body, nil)
}

func (cn *Conn) postJSON(ctx context.Context, op string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		cn.sess.APIURL+apiPrefix+"/"+op, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Authorization", cn.sess.AuthToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := cn.c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := readAPIError(resp.Body)
		return &UpstreamError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Code:       apiErr.Code,
			Message:    apiErr.Message,
		}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

func readAPIError(r io.Reader) apiError {
	var apiErr apiError
	// Best effort: upstream error bodies are JSON but a proxy in between
	// may return plain text.
	json.NewDecoder(io.LimitReader(r, 4096)).Decode(&apiErr)
	return apiErr
}
