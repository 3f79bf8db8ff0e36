// Package vision converts photographed or published menus into the typed
// menu model via the generative backend.
package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/menupilot/menupilot/internal/schema"
)

const fetchUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_7_2) AppleWebKit/537.36"

var reFencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// Parser extracts menu fragments from images and web pages.
type Parser struct {
	provider   schema.LLMProvider
	httpClient *http.Client
}

// New creates a Parser over the given backend.
func New(provider schema.LLMProvider) *Parser {
	return &Parser{
		provider:   provider,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ParseImage sends the photographed menu to the backend and decodes the
// fenced JSON reply. Backend failures propagate as BackendError; a reply
// without a parseable fenced block is a ParseError. The literal {} reply is
// the defined empty result, not an error.
func (p *Parser) ParseImage(ctx context.Context, image []byte, mimeType string) (schema.Menu, error) {
	if len(image) == 0 {
		return nil, &schema.ValidationError{Field: "image", Reason: "must not be empty"}
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	text, err := p.provider.GenerateVision(ctx, extractionPrompt, image, mimeType)
	if err != nil {
		return nil, err
	}
	return decodeMenu(text)
}

// ParseURL fetches a restaurant web page, extracts its readable text, and
// runs the same extraction prompt over it.
func (p *Parser) ParseURL(ctx context.Context, rawURL string) (schema.Menu, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, &schema.ValidationError{Field: "url", Reason: err.Error()}
	}

	pageText, err := p.fetchReadable(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	text, err := p.provider.Generate(ctx, extractionPrompt+urlPromptSuffix+pageText)
	if err != nil {
		return nil, err
	}
	return decodeMenu(text)
}

// fetchReadable downloads the page and strips it down to article text.
func (p *Parser) fetchReadable(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch page: HTTP %d", resp.StatusCode)
	}

	parsedURL, _ := url.Parse(rawURL)
	article, err := readability.FromReader(resp.Body, parsedURL)
	if err != nil {
		return "", fmt.Errorf("extract page text: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", &schema.ParseError{Reason: "page has no readable text"}
	}
	return text, nil
}

// decodeMenu extracts the first fenced JSON block from the reply and parses
// it as the menu schema.
func decodeMenu(text string) (schema.Menu, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "{}" {
		return schema.Menu{}, nil
	}

	m := reFencedJSON.FindStringSubmatch(trimmed)
	if m == nil {
		return nil, &schema.ParseError{Reason: "no fenced JSON block in reply"}
	}
	payload := strings.TrimSpace(m[1])
	if payload == "{}" {
		return schema.Menu{}, nil
	}

	var wrapper struct {
		Menu schema.Menu `json:"menu"`
	}
	if err := json.Unmarshal([]byte(payload), &wrapper); err != nil {
		return nil, &schema.ParseError{Reason: "fenced block is not valid menu JSON: " + err.Error()}
	}
	if wrapper.Menu == nil {
		return nil, &schema.ParseError{Reason: `fenced block has no "menu" object`}
	}

	return wrapper.Menu.Normalize(), nil
}

// validateURL checks that rawURL is http(s) with a valid domain.
func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("only http/https allowed, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing domain in URL")
	}
	return nil
}
