package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/kozaktomas/nameforge/internal/naming"
)

const (
	defaultOllamaURL = "http://localhost:11434"

	// maxImageSize caps the longer side of the image sent for analysis.
	maxImageSize = 1024

	// defaultMaxChars bounds the generated name when no budget is given.
	defaultMaxChars = 20

	requestTimeout = 30 * time.Second
	retryDelay     = 2 * time.Second
)

// Describer generates short descriptive filenames for images using a local
// Ollama-compatible vision endpoint.
type Describer struct {
	baseURL string
	client  *http.Client
}

// DescribeOptions controls filename generation. A non-positive MaxChars
// falls back to defaultMaxChars; the name is always truncated.
type DescribeOptions struct {
	Model    string
	MaxChars int
	Style    naming.Style
	Language string
}

func NewDescriber(baseURL string) *Describer {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	return &Describer{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// generateRequest represents a request to the Ollama generate API.
type generateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images"` // base64 encoded images
	Stream bool     `json:"stream"`
}

// generateResponse represents a response from the Ollama generate API.
type generateResponse struct {
	Response string `json:"response"`
}

// Describe produces a case-normalized filename stem for the image at path.
// The image is downscaled, re-encoded as JPEG and sent base64-encoded. A
// transport error is retried once after a short delay; any other failure
// aborts immediately.
func (d *Describer) Describe(ctx context.Context, path string, opts DescribeOptions) (string, error) {
	if opts.MaxChars <= 0 {
		opts.MaxChars = defaultMaxChars
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	resized, err := ResizeImage(data, maxImageSize)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return "", fmt.Errorf("invalid image format: %w", err)
		}
		return "", fmt.Errorf("failed to prepare image: %w", err)
	}

	reqBody := generateRequest{
		Model:  opts.Model,
		Prompt: buildPrompt(opts),
		Images: []string{base64.StdEncoding.EncodeToString(resized)},
		Stream: false,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := d.send(ctx, jsonBody)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("inference API error (status %d): %s", resp.StatusCode, body)
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	name := strings.TrimSpace(genResp.Response)
	if name == "" {
		return "", errors.New("model returned empty response")
	}

	name = naming.Convert(name, opts.Style)
	return truncate(name, opts.MaxChars), nil
}

// send posts the request body, retrying exactly once on a transport error.
// Non-success HTTP statuses are returned to the caller without retry.
func (d *Describer) send(ctx context.Context, jsonBody []byte) (*http.Response, error) {
	const maxAttempts = 2

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/api/generate", bytes.NewReader(jsonBody))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := d.client.Do(req)
		if err == nil {
			return resp, nil
		}

		lastErr = err
		if attempt < maxAttempts {
			log.Warn().Err(err).Msg("inference request failed, retrying (model might be loading)")
			time.Sleep(retryDelay)
		}
	}

	return nil, fmt.Errorf("inference request failed after %d attempts: %w", maxAttempts, lastErr)
}

// buildPrompt builds the filename generation instruction for the model.
func buildPrompt(opts DescribeOptions) string {
	var b strings.Builder
	b.WriteString("Generate filename:\n\n")
	fmt.Fprintf(&b, "Use %s\n", opts.Style)
	if opts.Style == naming.StyleSnake {
		b.WriteString("Separate words with underscores\n")
	}
	fmt.Fprintf(&b, "Max %d characters\n", opts.MaxChars)
	fmt.Fprintf(&b, "%s only\n", opts.Language)
	b.WriteString("No file extension\n")
	b.WriteString("No special chars\n")
	b.WriteString("Only key elements\n")
	b.WriteString("One word if possible\n")
	b.WriteString("Noun-verb format\n\n")
	b.WriteString("Respond ONLY with filename.")
	return b.String()
}

// truncate trims s to at most maxChars characters, never splitting a
// multi-byte character.
func truncate(s string, maxChars int) string {
	if utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	return string([]rune(s)[:maxChars])
}
