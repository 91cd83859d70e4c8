package usecases

import (
	"context"
	"strings"

	"github.com/fylo-cloud/fylo/internal/application/assistant/dto"
	"github.com/fylo-cloud/fylo/internal/infrastructure/metrics"
	"github.com/fylo-cloud/fylo/internal/shared/errors"
	"github.com/fylo-cloud/fylo/internal/shared/logger"
	"github.com/fylo-cloud/fylo/internal/shared/services/markdown"
)

// DefaultHistorySize is how many trailing turns are sent to the model.
const DefaultHistorySize = 10

const (
	promptPreamble = "Eres el asistente virtual de Fylo, una empresa de VPS cloud. " +
		"Hablas siempre como Fylo (por ejemplo: \"te recomiendo esta VPS\", \"en Fylo hacemos...\"). " +
		"No menciones que eres un modelo de lenguaje ni nombres de proveedores externos. " +
		"Responde en español, con un tono profesional pero cercano. " +
		"Usa euros, explica de forma corta por qué recomiendas cada recurso (ubicación, cores, RAM, almacenamiento, sistema operativo) " +
		"y, cuando sea útil, sugiere configuraciones escalables para distintos tipos de proyectos (SaaS, APIs, e-commerce, juegos, etc.).\n\n" +
		"Historial de la conversación hasta ahora:\n"
	promptClosing  = "\n\nResponde ahora como asistente de Fylo al último mensaje del cliente."
	openingMessage = "Cliente: Hola, necesito ayuda para elegir una VPS en Fylo.\n"
	emptyAnswer    = "Lo siento, no pude generar una respuesta."
)

// TextGenerator produces a completion for a single prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type AskAssistantCommand struct {
	Messages []dto.ChatMessage `json:"messages"`
}

// AskAssistantUseCase answers storefront questions. It never reads or writes
// orders or prices.
type AskAssistantUseCase struct {
	generator   TextGenerator
	markdown    markdown.MarkdownService
	historySize int
	logger      logger.Interface
}

// NewAskAssistantUseCase creates the use case. A nil generator means no
// provider key is configured; every call then fails with an explanatory error.
func NewAskAssistantUseCase(
	generator TextGenerator,
	markdownService markdown.MarkdownService,
	historySize int,
	logger logger.Interface,
) *AskAssistantUseCase {
	if historySize <= 0 {
		historySize = DefaultHistorySize
	}
	return &AskAssistantUseCase{
		generator:   generator,
		markdown:    markdownService,
		historySize: historySize,
		logger:      logger,
	}
}

func (uc *AskAssistantUseCase) Execute(ctx context.Context, cmd AskAssistantCommand) (*dto.AnswerDTO, error) {
	if uc.generator == nil {
		metrics.AssistantRequests.WithLabelValues("disabled").Inc()
		return nil, errors.NewInternalError(
			"La clave del asistente no está configurada en el servidor.",
		)
	}

	prompt := BuildPrompt(cmd.Messages, uc.historySize)

	text, err := uc.generator.Generate(ctx, prompt)
	if err != nil {
		metrics.AssistantRequests.WithLabelValues("failed").Inc()
		uc.logger.Errorw("assistant generation failed", "error", err)
		return nil, errors.NewInternalError("No se pudo obtener respuesta de la IA.", err.Error()).WithCause(err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		text = emptyAnswer
	}

	result := &dto.AnswerDTO{Answer: text}
	if uc.markdown != nil {
		html, err := uc.markdown.ToHTMLSanitized(text)
		if err != nil {
			uc.logger.Warnw("failed to render assistant answer", "error", err)
		} else {
			result.AnswerHTML = html
		}
	}

	metrics.AssistantRequests.WithLabelValues("ok").Inc()
	return result, nil
}

// BuildPrompt formats the last historySize messages into the storefront
// prompt. An empty history gets a default opening question.
func BuildPrompt(messages []dto.ChatMessage, historySize int) string {
	if historySize > 0 && len(messages) > historySize {
		messages = messages[len(messages)-historySize:]
	}

	var b strings.Builder
	b.WriteString(promptPreamble)

	if len(messages) == 0 {
		b.WriteString(openingMessage)
	} else {
		for i, m := range messages {
			if i > 0 {
				b.WriteByte('\n')
			}
			if m.Role == "user" {
				b.WriteString("Cliente: ")
			} else {
				b.WriteString("Asistente Fylo: ")
			}
			b.WriteString(m.Content)
		}
	}

	b.WriteString(promptClosing)
	return b.String()
}
