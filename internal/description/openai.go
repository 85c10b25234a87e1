package description

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"

	"authorsite/internal/book"
)

const maxGeneratedLength = 200

// boilerplatePrefixes are assistant framings stripped from completions
// before the text is accepted.
var boilerplatePrefixes = []string{
	"here is a description:",
	"here's a description:",
	"here is the description:",
	"description:",
	"sure!",
	"sure,",
	"certainly!",
	"certainly,",
	"of course!",
}

// OpenAIStrategy asks a hosted completion model for a short description.
// The call is best-effort: one retry after a delay on a 503, and any other
// failure or unusable output just passes the record down the chain.
type OpenAIStrategy struct {
	client     completionClient
	model      string
	authorName string
	retryDelay time.Duration
}

type completionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

func NewOpenAIStrategy(apiKey, model, authorName string) *OpenAIStrategy {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIStrategy{
		client:     openai.NewClient(apiKey),
		model:      model,
		authorName: authorName,
		retryDelay: 2 * time.Second,
	}
}

func (s *OpenAIStrategy) Name() string { return "openai" }

func (s *OpenAIStrategy) Resolve(ctx context.Context, rec book.Record) (string, bool) {
	prompt := fmt.Sprintf(
		"Write a one or two sentence description of the book %q by %s. Respond with only the description.",
		rec.Title, s.authorName)

	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   120,
		Temperature: 0.7,
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil && isOverloaded(err) {
		select {
		case <-time.After(s.retryDelay):
		case <-ctx.Done():
			return "", false
		}
		resp, err = s.client.CreateChatCompletion(ctx, req)
	}
	if err != nil {
		log.Printf("description: completion call failed: %v", err)
		return "", false
	}
	if len(resp.Choices) == 0 {
		return "", false
	}

	text := Sanitize(resp.Choices[0].Message.Content)
	if text == "" {
		return "", false
	}
	return text, true
}

func isOverloaded(err error) bool {
	var apiErr *openai.APIError
	return errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusServiceUnavailable
}

// Sanitize normalizes a raw completion: boilerplate prefixes and wrapping
// quotes are stripped, at most two sentences are kept, the text is cut to
// 200 characters at a sentence boundary, and the first letter capitalized.
func Sanitize(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.Trim(text, `"`)

	lower := strings.ToLower(text)
	for _, prefix := range boilerplatePrefixes {
		if strings.HasPrefix(lower, prefix) {
			text = strings.TrimSpace(text[len(prefix):])
			lower = strings.ToLower(text)
		}
	}

	text = firstSentences(text, 2)

	if len(text) > maxGeneratedLength {
		cut := text[:maxGeneratedLength]
		if idx := strings.LastIndexAny(cut, ".!?"); idx > 0 {
			text = cut[:idx+1]
		} else {
			text = strings.TrimSpace(cut)
		}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(text)
	return string(unicode.ToUpper(first)) + text[size:]
}

// firstSentences keeps at most n sentences, splitting on terminal
// punctuation followed by a space.
func firstSentences(text string, n int) string {
	count := 0
	for i := 0; i < len(text)-1; i++ {
		if (text[i] == '.' || text[i] == '!' || text[i] == '?') && text[i+1] == ' ' {
			count++
			if count == n {
				return text[:i+1]
			}
		}
	}
	return text
}
