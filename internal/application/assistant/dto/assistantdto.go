package dto

// ChatMessage is one turn of the storefront chat. Any role other than "user"
// is treated as the assistant.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type AnswerDTO struct {
	Answer     string `json:"answer"`
	AnswerHTML string `json:"answer_html,omitempty"`
}
