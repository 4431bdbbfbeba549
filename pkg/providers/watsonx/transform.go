package watsonx

import (
	"net/url"
	"strings"

	"mercator-hq/parley/pkg/config"
	"mercator-hq/parley/pkg/providers"
)

// Endpoint paths relative to the regional base URL.
const (
	chatPath       = "/ml/v1/text/chat"
	generationPath = "/ml/v1/text/generation"
)

// ContentPart is one typed fragment of a chat message.
type ContentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ChatMessage is a message in the chat endpoint format.
type ChatMessage struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// ChatRequest is the body of a text/chat call.
type ChatRequest struct {
	Messages   []ChatMessage               `json:"messages"`
	ProjectID  string                      `json:"project_id"`
	ModelID    string                      `json:"model_id"`
	Parameters config.GenerationParameters `json:"parameters"`
}

// GenerationRequest is the body of a text/generation call.
type GenerationRequest struct {
	Input      string                      `json:"input"`
	ProjectID  string                      `json:"project_id"`
	ModelID    string                      `json:"model_id"`
	Parameters config.GenerationParameters `json:"parameters"`
}

// Prompt is the user turn of one chat request together with its language
// directive.
type Prompt struct {
	Directive string
	Message   string
}

// Text renders the prompt for the generation endpoint:
//
//	<directive>\n\nHuman: <message>\n\nAssistant:
func (p Prompt) Text() string {
	return p.Directive + "\n\n" + p.turnMarker()
}

// turnMarker is the part of the prompt models tend to echo back.
func (p Prompt) turnMarker() string {
	return "Human: " + p.Message + "\n\nAssistant:"
}

func buildChatRequest(p Prompt, projectID, modelID string, params config.GenerationParameters) *ChatRequest {
	return &ChatRequest{
		Messages: []ChatMessage{
			{Role: "system", Content: []ContentPart{{Type: "text", Text: p.Directive}}},
			{Role: "user", Content: []ContentPart{{Type: "text", Text: p.Message}}},
		},
		ProjectID:  projectID,
		ModelID:    modelID,
		Parameters: params,
	}
}

func buildGenerationRequest(p Prompt, projectID, modelID string, params config.GenerationParameters) *GenerationRequest {
	return &GenerationRequest{
		Input:      p.Text(),
		ProjectID:  projectID,
		ModelID:    modelID,
		Parameters: params,
	}
}

// endpointURL returns the versioned URL for an endpoint.
func endpointURL(cfg config.UpstreamConfig, kind providers.EndpointKind) string {
	path, version := generationPath, cfg.GenerationVersion
	if kind == providers.EndpointChat {
		path, version = chatPath, cfg.ChatVersion
	}
	return strings.TrimSuffix(cfg.BaseURL, "/") + path + "?" + url.Values{"version": {version}}.Encode()
}
