package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrInstanceNotFound signals that the provider does not know the instance id.
// This is distinct from a generic failure: the instance stays unreachable
// until it is reconfigured upstream, so retrying is pointless.
var ErrInstanceNotFound = errors.New("gateway: instance not found")

// APIError carries the provider's HTTP status for failed calls.
type APIError struct {
	Op         string // "connection_state" | "send_text"
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway %s: status %d: %s", e.Op, e.StatusCode, e.Message)
}

// InstanceState is the readiness of a gateway instance, fetched fresh per
// attempt and never cached across jobs.
type InstanceState struct {
	Ready bool
}

// Client is a thin HTTP façade over the messaging provider. It performs no
// retries and no caching; retry policy lives in the job processor layer.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient builds a Client with a bounded transport timeout so a hung
// gateway cannot stall the single worker indefinitely.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// connectionStateResponse mirrors the provider's readiness body.
type connectionStateResponse struct {
	Instance struct {
		InstanceName string `json:"instanceName"`
		State        string `json:"state"`
	} `json:"instance"`
}

// InstanceState fetches the connection state of the named instance. Only the
// literal "open" state counts as ready; a provider 404 surfaces as
// ErrInstanceNotFound.
func (c *Client) InstanceState(ctx context.Context, instanceID string) (InstanceState, error) {
	url := fmt.Sprintf("%s/instance/connectionState/%s", c.baseURL, instanceID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return InstanceState{}, fmt.Errorf("gateway connection_state: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return InstanceState{}, fmt.Errorf("gateway connection_state: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return InstanceState{}, fmt.Errorf("%w: %s", ErrInstanceNotFound, instanceID)
	}
	if resp.StatusCode != http.StatusOK {
		return InstanceState{}, &APIError{
			Op:         "connection_state",
			StatusCode: resp.StatusCode,
			Message:    readBodySnippet(resp.Body),
		}
	}

	var body connectionStateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return InstanceState{}, fmt.Errorf("gateway connection_state: decode: %w", err)
	}

	return InstanceState{Ready: body.Instance.State == "open"}, nil
}

// sendTextRequest is the provider's send body.
type sendTextRequest struct {
	Number string `json:"number"`
	Text   string `json:"text"`
}

// SendText posts a text message to the given phone number under the given
// instance. One outbound request per call, no retry inside this component.
func (c *Client) SendText(ctx context.Context, instanceID, phoneNumber, text string) error {
	url := fmt.Sprintf("%s/message/sendText/%s", c.baseURL, instanceID)

	payload, err := json.Marshal(sendTextRequest{Number: phoneNumber, Text: text})
	if err != nil {
		return fmt.Errorf("gateway send_text: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("gateway send_text: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway send_text: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrInstanceNotFound, instanceID)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			Op:         "send_text",
			StatusCode: resp.StatusCode,
			Message:    readBodySnippet(resp.Body),
		}
	}

	return nil
}

// readBodySnippet reads a bounded prefix of the response body for error context.
func readBodySnippet(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil || len(b) == 0 {
		return "(no body)"
	}
	return string(b)
}
