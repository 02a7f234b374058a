package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/okian/internsim/internal/adapters/identity"
	"github.com/okian/internsim/internal/domain/types"
	"github.com/okian/internsim/pkg/logger"
)

type outcome int

const (
	outcomeSuccess outcome = iota
	outcomeRejected
	outcomeFailed
	outcomeInvalid
)

// HTTPClient wraps http.Client with the caller credentials of a run.
type HTTPClient struct {
	client *http.Client
	token  string
}

func newHTTPClient(timeout time.Duration, token string) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}, token: token}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with a JSON body on behalf of userID.
func (c *HTTPClient) Post(ctx context.Context, url, userID string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	} else {
		req.Header.Set(identity.HeaderUserID, userID)
	}
	return c.client.Do(req)
}

// submitProfiles posts every profile to /simulate using a worker pool.
func submitProfiles(ctx context.Context, config *Config, profiles []Profile, stats *Stats, log logger.Logger) {
	client := newHTTPClient(config.Timeout, config.Token)
	url := config.BaseURL + "/simulate"

	var mu sync.Mutex
	record := func(o outcome, latency time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		stats.Submitted++
		stats.TotalLatency += latency
		if latency > stats.MaxLatency {
			stats.MaxLatency = latency
		}
		switch o {
		case outcomeSuccess:
			stats.Successful++
		case outcomeRejected:
			stats.Rejected++
		case outcomeInvalid:
			stats.Invalid++
		default:
			stats.Failed++
		}
	}

	profileChan := make(chan Profile, config.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range profileChan {
				start := time.Now()
				o, err := submitSingleProfile(ctx, client, url, p)
				if err != nil && config.Verbose {
					log.Warn(ctx, "simulation request failed", logger.String("userID", p.UserID), logger.Error(err))
				}
				record(o, time.Since(start))
			}
		}()
	}

	go func() {
		defer close(profileChan)
		for _, p := range profiles {
			select {
			case <-ctx.Done():
				return
			case profileChan <- p:
			}
		}
	}()

	wg.Wait()
}

func submitSingleProfile(ctx context.Context, client *HTTPClient, url string, p Profile) (outcome, error) {
	resp, err := client.Post(ctx, url, p.UserID, p.Request)
	if err != nil {
		return outcomeFailed, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return outcomeFailed, fmt.Errorf("read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		var report types.SimulateResponse
		if err := json.Unmarshal(body, &report); err != nil {
			return outcomeInvalid, fmt.Errorf("decode report: %w", err)
		}
		if err := verifyReport(report); err != nil {
			return outcomeInvalid, err
		}
		return outcomeSuccess, nil
	case resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError:
		return outcomeRejected, fmt.Errorf("status %d: %s", resp.StatusCode, body)
	default:
		return outcomeFailed, fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
}
