package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// UDPipeConfig configures a UDPipeEngine.
type UDPipeConfig struct {
	// BaseURL of the service, e.g. https://lindat.mff.cuni.cz/services/udpipe/api
	BaseURL string

	// Model name, e.g. romanian-rrt-ud-2.12-230717
	Model string

	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// Burst is the maximum burst size.
	Burst int

	Timeout time.Duration
}

// UDPipeEngine calls a UDPipe REST service. UDPipe does not recognise named
// entities, so the sentences it returns carry no spans.
type UDPipeEngine struct {
	baseURL string
	model   string
	client  *http.Client
	limiter *rate.Limiter
}

type udpipeResponse struct {
	Model  string `json:"model"`
	Result string `json:"result"`
}

func NewUDPipeEngine(cfg UDPipeConfig) *UDPipeEngine {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}

	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &UDPipeEngine{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Parse posts text to the process endpoint with tokenizer, tagger and parser
// enabled.
func (e *UDPipeEngine) Parse(ctx context.Context, text string) ([]byte, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("tokenizer", "")
	form.Set("tagger", "")
	form.Set("parser", "")
	form.Set("data", text)
	if e.model != "" {
		form.Set("model", e.model)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/process", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("udpipe: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var r udpipeResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("udpipe: decode response: %w", err)
	}

	return []byte(r.Result), nil
}
