// Package providers implements the generative-language backend client.
// The only concrete implementation talks to the Gemini REST API.
package providers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/menupilot/menupilot/internal/schema"
	"github.com/menupilot/menupilot/internal/shared/stringutils"
)

const defaultAPIBase = "https://generativelanguage.googleapis.com/v1beta"

// GeminiProvider makes direct HTTP calls to the Gemini generateContent
// endpoint. It implements schema.LLMProvider.
type GeminiProvider struct {
	apiKey      string
	apiBase     string
	model       string
	visionModel string
	httpClient  *http.Client
}

// NewGeminiProvider constructs a provider from raw config values.
// visionModel falls back to model when empty; apiBase falls back to the
// public endpoint.
func NewGeminiProvider(apiKey, apiBase, model, visionModel string) *GeminiProvider {
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	if visionModel == "" {
		visionModel = model
	}
	return &GeminiProvider{
		apiKey:      apiKey,
		apiBase:     strings.TrimRight(apiBase, "/"),
		model:       model,
		visionModel: visionModel,
		httpClient:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (p *GeminiProvider) DefaultModel() string { return p.model }

// Chat runs one conversational turn. A leading "system" message is lifted
// into the systemInstruction field; tools are attached as function
// declarations.
func (p *GeminiProvider) Chat(
	ctx context.Context,
	messages schema.Messages,
	tools []map[string]any,
	opts schema.ChatOptions,
) (schema.LLMResponse, error) {
	model := opts.Model
	if model == "" {
		model = p.model
	}

	system, contents := convertMessages(messages)

	body := map[string]any{
		"contents": contents,
		"generationConfig": map[string]any{
			"temperature":     opts.Temperature,
			"maxOutputTokens": maxTokensOrDefault(opts.MaxTokens),
		},
	}
	if system != "" {
		body["systemInstruction"] = map[string]any{
			"parts": []map[string]any{{"text": system}},
		}
	}
	if len(tools) > 0 {
		body["tools"] = []map[string]any{
			{"functionDeclarations": tools},
		}
	}

	raw, err := p.post(ctx, model, body)
	if err != nil {
		return schema.LLMResponse{}, err
	}
	return parseChatResponse(raw)
}

// GenerateVision runs the prompt over an inline image and returns the raw
// reply text. Used by the menu image parser.
func (p *GeminiProvider) GenerateVision(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	body := map[string]any{
		"contents": []map[string]any{
			{
				"role": "user",
				"parts": []map[string]any{
					{"inlineData": map[string]any{
						"mimeType": mimeType,
						"data":     base64.StdEncoding.EncodeToString(image),
					}},
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]any{
			"temperature":     0.2,
			"maxOutputTokens": 4096,
		},
	}

	raw, err := p.post(ctx, p.visionModel, body)
	if err != nil {
		return "", err
	}
	resp, err := parseChatResponse(raw)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Generate runs a single-shot text prompt with no tools attached.
func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	body := map[string]any{
		"contents": []map[string]any{
			{"role": "user", "parts": []map[string]any{{"text": prompt}}},
		},
		"generationConfig": map[string]any{
			"temperature":     0.2,
			"maxOutputTokens": 4096,
		},
	}

	raw, err := p.post(ctx, p.model, body)
	if err != nil {
		return "", err
	}
	resp, err := parseChatResponse(raw)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// post marshals body, calls models/<model>:generateContent, and returns the
// raw response bytes. Non-200 statuses become BackendError.
func (p *GeminiProvider) post(ctx context.Context, model string, body map[string]any) ([]byte, error) {
	if p.apiKey == "" {
		return nil, &schema.BackendError{Message: "missing Gemini API key"}
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", p.apiBase, model, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &schema.BackendError{Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &schema.BackendError{Message: "read response: " + err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &schema.BackendError{
			Status:  resp.StatusCode,
			Message: friendlyHTTPError(resp.StatusCode, raw),
		}
	}
	return raw, nil
}

// ---------------------------------------------------------------------------
// Wire conversion
// ---------------------------------------------------------------------------

// convertMessages converts conversation messages to the Gemini contents
// array. Returns (system_instruction, contents). Consecutive system messages
// are concatenated; "model" and "user" roles pass through unchanged.
func convertMessages(messages schema.Messages) (string, []map[string]any) {
	var system string
	out := make([]map[string]any, 0, len(messages.Messages))

	for _, msg := range messages.Messages {
		switch msg.Role {
		case schema.RoleSystem:
			if system != "" {
				system += "\n\n"
			}
			system += msg.Content
		case schema.RoleUser, schema.RoleModel:
			out = append(out, map[string]any{
				"role":  msg.Role,
				"parts": []map[string]any{{"text": msg.Content}},
			})
		}
	}
	return system, out
}

// geminiRespBody is the subset of the generateContent response we care about.
// A part carries either text or a functionCall, never both.
type geminiRespBody struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text         string `json:"text"`
				FunctionCall *struct {
					Name string         `json:"name"`
					Args map[string]any `json:"args"`
				} `json:"functionCall"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

func parseChatResponse(raw []byte) (schema.LLMResponse, error) {
	var body geminiRespBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return schema.LLMResponse{}, &schema.BackendError{Message: "parse response: " + err.Error()}
	}
	if len(body.Candidates) == 0 {
		return schema.LLMResponse{}, &schema.BackendError{Message: "empty candidates in response"}
	}

	var text strings.Builder
	var toolCalls []schema.ToolCallRequest

	for _, part := range body.Candidates[0].Content.Parts {
		if part.FunctionCall != nil {
			args := part.FunctionCall.Args
			if args == nil {
				args = map[string]any{}
			}
			toolCalls = append(toolCalls, schema.ToolCallRequest{
				Name: part.FunctionCall.Name,
				Args: args,
			})
			continue
		}
		text.WriteString(part.Text)
	}

	return schema.LLMResponse{Text: text.String(), ToolCalls: toolCalls}, nil
}

func maxTokensOrDefault(n int) int {
	if n <= 0 {
		return 4096
	}
	return n
}

func friendlyHTTPError(code int, body []byte) string {
	if code == http.StatusTooManyRequests {
		return "rate limit or quota exceeded"
	}
	return stringutils.Truncate(strings.TrimSpace(string(body)), 300)
}
