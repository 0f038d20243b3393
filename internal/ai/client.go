package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Message is one turn of a counseling conversation.
type Message struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

// Client talks to the generative-language API. Every public method degrades
// to a static fallback string on failure; callers never see an error.
type Client struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature,omitempty"`
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (c *Client) generate(req generateRequest) (string, error) {
	jsonBody, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.BaseURL, c.Model, c.APIKey)
	httpReq, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("api error: %s (status: %d)", string(respBody), resp.StatusCode)
	}

	var result generateResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return result.Candidates[0].Content.Parts[0].Text, nil
}

func historyContents(history []Message) []content {
	contents := make([]content, 0, len(history))
	for _, msg := range history {
		role := "user"
		if msg.Role == "model" {
			role = "model"
		}
		contents = append(contents, content{Role: role, Parts: []part{{Text: msg.Text}}})
	}
	return contents
}

// Chat continues a counseling conversation and returns the model's reply.
func (c *Client) Chat(history []Message, text string) string {
	contents := append(historyContents(history), content{Role: "user", Parts: []part{{Text: text}}})

	reply, err := c.generate(generateRequest{
		Contents:          contents,
		SystemInstruction: &content{Parts: []part{{Text: SystemInstruction}}},
		GenerationConfig:  &generationConfig{Temperature: 0.7},
	})
	if err != nil || reply == "" {
		log.Printf("chat completion failed: %v", err)
		return "Sinto muito, houve um erro de conexão. Por favor, tente novamente."
	}
	return reply
}

// ChatWithAudio sends a recorded voice message (base64) together with the
// conversation history. The model detects the spoken language and answers in
// it.
func (c *Client) ChatWithAudio(audioBase64, mimeType string, history []Message) string {
	contents := append(historyContents(history), content{
		Role: "user",
		Parts: []part{
			{InlineData: &inlineData{MimeType: mimeType, Data: audioBase64}},
			{Text: "Listen to this audio carefully. Identify the language spoken and respond as the Living Bible Counselor in that same language, offering scriptural guidance and comfort."},
		},
	})

	reply, err := c.generate(generateRequest{
		Contents:          contents,
		SystemInstruction: &content{Parts: []part{{Text: SystemInstruction}}},
	})
	if err != nil || reply == "" {
		log.Printf("audio chat completion failed: %v", err)
		return "Sinto muito, houve um erro de conexão. Por favor, tente novamente."
	}
	return reply
}

// DailyVerse generates the verse of the day with a one-line reflection.
func (c *Client) DailyVerse() string {
	reply, err := c.generate(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: dailyVersePrompt}}}},
	})
	if err != nil {
		log.Printf("daily verse generation failed: %v", err)
		return "Filipenses 4:13 - Tudo posso naquele que me fortalece."
	}
	if reply == "" {
		return "Salmos 23:1 - O Senhor é o meu pastor, nada me faltará."
	}
	return reply
}

// MediaRecommendations suggests worship music and a study video for a theme.
func (c *Client) MediaRecommendations(theme string) string {
	reply, err := c.generate(generateRequest{
		Contents:          []content{{Role: "user", Parts: []part{{Text: fmt.Sprintf(mediaPrompt, theme)}}}},
		SystemInstruction: &content{Parts: []part{{Text: "Você é um curador de conteúdo cristão. Seja breve e inspirador."}}},
	})
	if err != nil {
		log.Printf("media recommendation failed: %v", err)
		return "Música: 'Aclame ao Senhor' - Vídeo: 'O Sermão da Montanha'."
	}
	if reply == "" {
		return "Busque por 'Louvor e Adoração' no YouTube para edificar seu dia."
	}
	return reply
}

// SearchBible answers a passage reference or theme search.
func (c *Client) SearchBible(query string) string {
	reply, err := c.generate(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: fmt.Sprintf(searchPrompt, query)}}}},
	})
	if err != nil {
		log.Printf("bible search failed: %v", err)
		return "Erro ao buscar na Bíblia. Verifique sua conexão."
	}
	if reply == "" {
		return "Não conseguimos encontrar essa passagem. Tente buscar algo como 'João 3' ou 'Salmo 23'."
	}
	return reply
}
