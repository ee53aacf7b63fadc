package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFences(t *testing.T) {
	cases := map[string]struct {
		input    string
		expected string
	}{
		"bare json":        {`{"sections":[]}`, `{"sections":[]}`},
		"plain fence":      {"```\n{\"sections\":[]}\n```", `{"sections":[]}`},
		"json fence":       {"```json\n{\"sections\":[]}\n```", `{"sections":[]}`},
		"uppercase fence":  {"```JSON\n{\"sections\":[]}\n```", `{"sections":[]}`},
		"surrounding gaps": {"  \n```json\n{}\n```  \n", `{}`},
		"no closing fence": {"```json\n{}", `{}`},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, stripCodeFences(tc.input))
		})
	}
}

func completionServer(t *testing.T, reply string, capture *messagesRequest) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, apiVersion, r.Header.Get("anthropic-version"))

		if capture != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}

		w.Header().Set("Content-Type", "application/json")
		response := map[string]interface{}{
			"content": []map[string]string{{"type": "text", "text": reply}},
		}
		require.NoError(t, json.NewEncoder(w).Encode(response))
	}))
}

func TestTransformContentStripsFences(t *testing.T) {
	var captured messagesRequest
	srv := completionServer(t, "```json\n{\"sections\":[{\"title\":\"PPE\"}]}\n```", &captured)
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "test-model")

	result, err := client.TransformContent(context.Background(), "wear a hard hat")
	require.NoError(t, err)

	assert.Equal(t, `{"sections":[{"title":"PPE"}]}`, result)
	assert.Equal(t, "test-model", captured.Model)
	assert.Contains(t, captured.Messages[0].Content, "wear a hard hat")
	assert.Contains(t, captured.System, "Health & Safety")
}

func TestGenerateQuestionsRequestsTargetLanguage(t *testing.T) {
	var captured messagesRequest
	srv := completionServer(t, `{"questions":[]}`, &captured)
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "test-model")

	_, err := client.GenerateQuestions(context.Background(), "ladder safety", "pl")
	require.NoError(t, err)

	assert.Contains(t, captured.Messages[0].Content, "Output the questions in pl.")
}

func TestGenerateQuestionsOmitsLanguageInstructionForEnglish(t *testing.T) {
	var captured messagesRequest
	srv := completionServer(t, `{"questions":[]}`, &captured)
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "test-model")

	_, err := client.GenerateQuestions(context.Background(), "ladder safety", "en")
	require.NoError(t, err)

	assert.NotContains(t, captured.Messages[0].Content, "Output the questions in")
}

func TestChatSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"type":"overloaded_error"}}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "test-model")

	_, err := client.TranslateContent(context.Background(), "content", "es")
	assert.Error(t, err)
}

func TestChatRejectsEmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "test-model")

	_, err := client.TranslateContent(context.Background(), "content", "es")
	assert.Error(t, err)
}
