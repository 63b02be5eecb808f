package entity

type GenerateRequest struct {
	Query   string  `json:"query" validate:"required"`
	Context []Chunk `json:"context" validate:"dive"`
}

type GenerateResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

type AskResponse struct {
	Answer  string         `json:"answer"`
	Sources []string       `json:"sources"`
	Results []SearchResult `json:"results"`
}

type OllamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options OllamaOptions `json:"options"`
}

type OllamaOptions struct {
	Temperature float64 `json:"temperature"`
}

type OllamaGenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
