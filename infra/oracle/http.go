// Package oracle provides the HTTP-backed planning oracle, a thin client for
// a remote generation endpoint that returns plan proposals as text.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	corelogger "github.com/kilianp07/stripboard/core/logger"
	coreoracle "github.com/kilianp07/stripboard/core/oracle"
	"github.com/kilianp07/stripboard/infra/logger"
)

// Config defines the remote planner endpoint.
type Config struct {
	// URL is the completion endpoint proposals are requested from.
	URL string `json:"url"`
	// Model is forwarded to the endpoint when set.
	Model string `json:"model"`
	// TimeoutSeconds bounds each request. Zero means 30 seconds.
	TimeoutSeconds int `json:"timeout_seconds"`
}

// HTTPOracle requests plan proposals from a remote endpoint. Transport
// failures and non-2xx responses surface as errors, which the scheduling
// stages treat like unparseable proposals.
type HTTPOracle struct {
	client *http.Client
	url    string
	model  string
	log    corelogger.Logger
}

// New creates an HTTPOracle from the configuration.
func New(cfg Config) (*HTTPOracle, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("oracle: url is required")
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPOracle{
		client: &http.Client{Timeout: timeout},
		url:    cfg.URL,
		model:  cfg.Model,
		log:    logger.New("http-oracle"),
	}, nil
}

type proposalRequest struct {
	Stage   string          `json:"stage"`
	Model   string          `json:"model,omitempty"`
	Context json.RawMessage `json:"context"`
}

type proposalResponse struct {
	Output string `json:"output"`
}

// ProposePlan implements oracle.Oracle.
func (o *HTTPOracle) ProposePlan(ctx context.Context, req coreoracle.Request) ([]byte, error) {
	body, err := json.Marshal(proposalRequest{
		Stage:   string(req.Stage),
		Model:   o.model,
		Context: req.Context,
	})
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("oracle request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("oracle request: unexpected status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var pr proposalResponse
	if err := json.Unmarshal(raw, &pr); err == nil && pr.Output != "" {
		return []byte(pr.Output), nil
	}
	// Endpoints that answer with the proposal document directly.
	return raw, nil
}
