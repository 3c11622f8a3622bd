package imagegen

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// placeholder in a configured primary URL replaced by the encoded prompt
const promptPlaceholder = "{prompt}"

// operator-configured primary provider: a GET endpoint that returns image
// bytes, optionally authenticated with a bearer token
//
// the prompt replaces a {prompt} placeholder in the URL, or is appended as
// a "prompt" query parameter when no placeholder is present
type PrimaryProvider struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewPrimaryProvider(endpoint, apiKey string) *PrimaryProvider {
	return &PrimaryProvider{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: imageHTTPClient,
	}
}

func (p *PrimaryProvider) Name() string { return "primary" }

func (p *PrimaryProvider) Generate(ctx context.Context, prompt string) ([]byte, error) {
	reqURL := p.buildURL(prompt)

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if p.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.apiKey))
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

func (p *PrimaryProvider) buildURL(prompt string) string {
	encoded := url.QueryEscape(prompt)

	if strings.Contains(p.endpoint, promptPlaceholder) {
		return strings.ReplaceAll(p.endpoint, promptPlaceholder, encoded)
	}

	sep := "?"
	if strings.Contains(p.endpoint, "?") {
		sep = "&"
	}

	return p.endpoint + sep + "prompt=" + encoded
}
