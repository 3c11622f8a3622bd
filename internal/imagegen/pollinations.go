package imagegen

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const pollinationsBaseURL = "https://image.pollinations.ai/prompt/"

// default provider: the keyless Pollinations endpoint, which returns the
// rendered image bytes directly for a URL-encoded prompt
type PollinationsProvider struct {
	baseURL    string
	httpClient *http.Client
}

func NewPollinationsProvider() *PollinationsProvider {
	return &PollinationsProvider{
		baseURL:    pollinationsBaseURL,
		httpClient: imageHTTPClient, // use shared client with proper timeouts and connection pooling
	}
}

func (p *PollinationsProvider) Name() string { return "pollinations" }

func (p *PollinationsProvider) Generate(ctx context.Context, prompt string) ([]byte, error) {
	reqURL := p.baseURL + url.QueryEscape(prompt)

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	img, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}

	if len(img) == 0 {
		return nil, fmt.Errorf("empty image payload")
	}

	return img, nil
}
