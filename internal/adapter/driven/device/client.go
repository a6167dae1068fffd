// Package device implements the DeviceClient port over plain HTTP and TCP.
package device

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/ericfisherdev/homepanel/internal/domain/model"
	"github.com/ericfisherdev/homepanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.DeviceClient = (*Client)(nil)

// maxBodyBytes caps how much of a device response is read.
const maxBodyBytes = 1 << 20

// Client talks to devices on the local network. Deadlines come from the
// caller's context.
type Client struct {
	http   *http.Client
	dialer *net.Dialer
}

// NewClient creates a Client with its own transport. Responses are never
// cached and redirects are not followed.
func NewClient() *Client {
	return NewClientWithHTTPClient(&http.Client{
		Transport: http.DefaultTransport.(*http.Transport).Clone(),
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	})
}

// NewClientWithHTTPClient creates a Client around an existing http.Client.
// This constructor is intended for testing.
func NewClientWithHTTPClient(httpClient *http.Client) *Client {
	return &Client{http: httpClient, dialer: &net.Dialer{}}
}

// FetchStatus issues GET /api/status.
func (c *Client) FetchStatus(ctx context.Context, d model.Device) (*model.StatusReport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint(d, "/api/status"), nil)
	if err != nil {
		return nil, fmt.Errorf("build status request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch status of %s: %w", d.Name, err)
	}
	defer resp.Body.Close()

	report := &model.StatusReport{StatusCode: resp.StatusCode}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return report, nil
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&report.Info); err != nil {
		return nil, fmt.Errorf("decode status of %s: %w", d.Name, err)
	}
	return report, nil
}

// Dial opens and closes a TCP connection.
func (c *Client) Dial(ctx context.Context, d model.Device) error {
	conn, err := c.dialer.DialContext(ctx, "tcp", d.HostPort())
	if err != nil {
		return fmt.Errorf("dial %s: %w", d.Name, err)
	}
	return conn.Close()
}

// Execute issues POST /api/execute.
func (c *Client) Execute(ctx context.Context, d model.Device, cmd model.RemoteCommand) (*model.RemoteResponse, error) {
	body, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("encode command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint(d, "/api/execute"), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build execute request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute on %s: %w", d.Name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response from %s: %w", d.Name, err)
	}
	return &model.RemoteResponse{StatusCode: resp.StatusCode, Body: data}, nil
}

func endpoint(d model.Device, path string) string {
	return "http://" + d.HostPort() + path
}
