// Package llm wraps the Anthropic messages API for the three content
// enrichment operations the product needs: simplifying safety documents,
// translating them, and generating comprehension questions.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/clearproof/api/logging"
)

var log = logging.GetLogger().WithFields(logrus.Fields{"package": "llm"})

const (
	apiVersion = "2023-06-01"
	maxTokens  = 4096
)

// Client calls the Anthropic messages API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient creates a new completion client.
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// chat sends a single-turn conversation and returns the first content block.
func (c *Client) chat(ctx context.Context, system, prompt string) (string, error) {
	wrapMsg := "completion request failed"

	payload := messagesRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		System:    system,
		Messages:  []message{{Role: "user", Content: prompt}},
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, wrapMsg)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(encoded))
	if err != nil {
		return "", errors.Wrap(err, wrapMsg)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, wrapMsg)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", errors.Wrap(err, wrapMsg)
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion api error: %d %s", res.StatusCode, string(body))
	}

	var decoded messagesResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", errors.Wrap(err, wrapMsg)
	}
	if len(decoded.Content) == 0 {
		return "", errors.New("completion response contained no content")
	}

	return decoded.Content[0].Text, nil
}

var (
	openFence  = regexp.MustCompile(`(?i)^` + "```" + `(?:json)?\s*`)
	closeFence = regexp.MustCompile("\\s*```$")
)

// stripCodeFences removes a wrapping markdown code block from model output.
// The prompts forbid fences, but models add them anyway often enough that
// the callers depend on clean JSON.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	text = openFence.ReplaceAllString(text, "")
	text = closeFence.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

const transformSystem = `You are a Health & Safety content specialist. Your job is to transform complex H&S documents into clear, simple sections that workers can easily understand.

Rules:
- Use simple, direct language (aim for 6th grade reading level)
- Break into short sections with clear headings
- Use bullet points for lists of requirements
- Highlight critical safety points
- Remove legal jargon, keep practical information
- Output ONLY valid JSON with structure: { "sections": [{ "title": string, "content": string, "critical": boolean }] }
- Do NOT wrap in markdown code blocks`

// TransformContent rewrites a raw safety document into simplified,
// worker-friendly JSON sections.
func (c *Client) TransformContent(ctx context.Context, rawContent string) (string, error) {
	log.Debug("transforming document content")

	prompt := "Transform this H&S document into clear, worker-friendly sections:\n\n" + rawContent
	result, err := c.chat(ctx, transformSystem, prompt)
	if err != nil {
		return "", err
	}
	return stripCodeFences(result), nil
}

const translateSystem = `You are a professional translator specializing in Health & Safety content. Translate accurately while keeping the language simple and clear for workers.`

// TranslateContent translates simplified content into the target language.
func (c *Client) TranslateContent(ctx context.Context, content, targetLanguage string) (string, error) {
	log.WithFields(logrus.Fields{"language": targetLanguage}).Debug("translating content")

	prompt := fmt.Sprintf("Translate the following H&S content to %s. Keep it simple and clear:\n\n%s", targetLanguage, content)
	return c.chat(ctx, translateSystem, prompt)
}

const questionsSystem = `You are a Health & Safety training specialist. Create scenario-based comprehension questions that verify workers truly understood the safety content - not just memorized it.

Rules:
- Create 3-5 questions
- Use realistic workplace scenarios
- Multiple choice with 3 options
- One clearly correct answer based on the content
- Questions should test understanding, not memory
- Output ONLY valid JSON: { "questions": [{ "scenario": string, "question": string, "options": string[], "correctIndex": number }] }
- Do NOT wrap in markdown code blocks`

// GenerateQuestions produces scenario-based comprehension questions for the
// given content, in the given language.
func (c *Client) GenerateQuestions(ctx context.Context, content, language string) (string, error) {
	log.WithFields(logrus.Fields{"language": language}).Debug("generating comprehension questions")

	languageInstruction := ""
	if language != "" && language != "en" {
		languageInstruction = fmt.Sprintf(" Output the questions in %s.", language)
	}

	prompt := fmt.Sprintf("Based on this H&S content, create scenario-based comprehension questions.%s\n\n%s", languageInstruction, content)
	result, err := c.chat(ctx, questionsSystem, prompt)
	if err != nil {
		return "", err
	}
	return stripCodeFences(result), nil
}
