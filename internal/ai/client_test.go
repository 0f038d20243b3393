package ai

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "test-key", "test-model")
}

func replyWith(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}
}

func TestChatReturnsModelReply(t *testing.T) {
	var captured generateRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		replyWith("Que a paz esteja com você.")(w, r)
	})

	history := []Message{
		{Role: "user", Text: "Estou ansioso"},
		{Role: "model", Text: "Entendo."},
	}
	reply := client.Chat(history, "O que a Bíblia diz?")
	assert.Equal(t, "Que a paz esteja com você.", reply)

	require.Len(t, captured.Contents, 3, "history plus the new turn")
	assert.Equal(t, "model", captured.Contents[1].Role)
	assert.Equal(t, "O que a Bíblia diz?", captured.Contents[2].Parts[0].Text)
	require.NotNil(t, captured.SystemInstruction)
	assert.Equal(t, SystemInstruction, captured.SystemInstruction.Parts[0].Text)
}

func TestChatFallbackOnServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	reply := client.Chat(nil, "olá")
	assert.Equal(t, "Sinto muito, houve um erro de conexão. Por favor, tente novamente.", reply)
}

func TestChatFallbackOnEmptyCandidates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	})

	reply := client.Chat(nil, "olá")
	assert.Equal(t, "Sinto muito, houve um erro de conexão. Por favor, tente novamente.", reply)
}

func TestChatWithAudioSendsInlineData(t *testing.T) {
	var captured generateRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		replyWith("Ouvi sua mensagem.")(w, r)
	})

	reply := client.ChatWithAudio("b64data", "audio/ogg", nil)
	assert.Equal(t, "Ouvi sua mensagem.", reply)

	require.Len(t, captured.Contents, 1)
	parts := captured.Contents[0].Parts
	require.Len(t, parts, 2)
	require.NotNil(t, parts[0].InlineData)
	assert.Equal(t, "audio/ogg", parts[0].InlineData.MimeType)
	assert.Equal(t, "b64data", parts[0].InlineData.Data)
}

func TestDailyVerseFallbacks(t *testing.T) {
	failing := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	assert.Equal(t, "Filipenses 4:13 - Tudo posso naquele que me fortalece.", failing.DailyVerse())

	empty := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	})
	assert.Equal(t, "Salmos 23:1 - O Senhor é o meu pastor, nada me faltará.", empty.DailyVerse())
}

func TestSearchBible(t *testing.T) {
	var captured generateRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		replyWith("João 3:16 - Porque Deus amou o mundo...")(w, r)
	})

	result := client.SearchBible("João 3")
	assert.Contains(t, result, "João 3:16")
	assert.Contains(t, captured.Contents[0].Parts[0].Text, "João 3")
}

func TestMediaRecommendationsFallback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})
	assert.Equal(t, "Música: 'Aclame ao Senhor' - Vídeo: 'O Sermão da Montanha'.", client.MediaRecommendations("paz"))
}
