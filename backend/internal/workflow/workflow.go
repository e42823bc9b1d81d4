package workflow

import (
	"context"

	"go.uber.org/zap"
	"samvad-relay/backend/internal/language"
	"samvad-relay/backend/internal/store"
	"samvad-relay/backend/internal/translate"
	"samvad-relay/backend/pkg/logger"
)

// LanguageStore persists per-user language preferences
type LanguageStore interface {
	GetUserLanguage(ctx context.Context, platform, userID string) (string, error)
	SetUserLanguage(ctx context.Context, platform, userID, language string) error
}

// Directory resolves the supported language set
type Directory interface {
	List(ctx context.Context) []store.LanguageOption
	IsSupported(ctx context.Context, code string) bool
}

// Translator brackets agent calls with fail-open translation
type Translator interface {
	Translate(ctx context.Context, text, target, source string) translate.Result
}

// Agent invokes the external conversational backend
type Agent interface {
	Invoke(ctx context.Context, message, sessionID string) (string, error)
}

// QuickReply is a tappable preset reply for Facebook/Instagram
type QuickReply struct {
	Title   string `json:"title"`
	Payload string `json:"payload"`
}

// Button is a WhatsApp interactive reply button
type Button struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// maxButtons is the WhatsApp interactive message button cap
const maxButtons = 3

// Response describes the outbound reply for one inbound message
type Response struct {
	Text         string       `json:"text"`
	QuickReplies []QuickReply `json:"quick_replies,omitempty"`
	Buttons      []Button     `json:"buttons,omitempty"`
}

// Workflow is the per-message conversation state machine. A user is either
// awaiting language selection (no stored preference) or active; the state lives
// in the language store, never here, so every delivery is handled statelessly.
type Workflow struct {
	store      LanguageStore
	directory  Directory
	translator Translator
	agent      Agent
	logger     *zap.Logger
}

// New creates a workflow with all collaborators injected
func New(store LanguageStore, directory Directory, translator Translator, agent Agent) *Workflow {
	return &Workflow{
		store:      store,
		directory:  directory,
		translator: translator,
		agent:      agent,
		logger:     logger.Get(),
	}
}

// HandleMessage processes one inbound message and produces the reply
// descriptor. It never fails outward: every error path converts to a valid
// response carrying a localized error string.
func (w *Workflow) HandleMessage(ctx context.Context, platform, userID, text, payload string) *Response {
	userLanguage, err := w.store.GetUserLanguage(ctx, platform, userID)
	if err != nil {
		// Unreadable preference is treated as unset: re-prompting is safe,
		// answering in the wrong language is not.
		w.logger.Error("Failed to read language preference, treating as unset",
			zap.String("platform", platform),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		userLanguage = ""
	}

	if userLanguage == "" {
		return w.handleLanguageSelection(ctx, platform, userID, text, payload)
	}

	return w.handleConversation(ctx, platform, userID, text, userLanguage)
}

// handleLanguageSelection runs the AWAITING_LANGUAGE state: confirm a valid
// selection or emit the selection prompt
func (w *Workflow) handleLanguageSelection(ctx context.Context, platform, userID, text, payload string) *Response {
	selected := language.ParseSelection(text, payload)

	if selected != "" && w.directory.IsSupported(ctx, selected) {
		if err := w.store.SetUserLanguage(ctx, platform, userID, selected); err != nil {
			// Last-write-wins upsert: confirm anyway, the next message
			// simply re-prompts if the write was lost
			w.logger.Error("Failed to persist language preference",
				zap.String("platform", platform),
				zap.String("user_id", userID),
				zap.String("language", selected),
				zap.Error(err),
			)
		}
		return &Response{Text: language.Confirmation(selected)}
	}

	return w.selectionPrompt(ctx)
}

// selectionPrompt builds the welcome descriptor from the current directory
// snapshot: quick replies for every entry, buttons truncated to the WhatsApp cap
func (w *Workflow) selectionPrompt(ctx context.Context) *Response {
	languages := w.directory.List(ctx)

	quickReplies := make([]QuickReply, 0, len(languages))
	for _, lang := range languages {
		quickReplies = append(quickReplies, QuickReply{
			Title:   lang.Name,
			Payload: "LANG_" + lang.Code,
		})
	}

	buttons := make([]Button, 0, maxButtons)
	for _, lang := range languages {
		if len(buttons) == maxButtons {
			break
		}
		buttons = append(buttons, Button{
			ID:    "lang_" + lang.Code,
			Title: lang.Name,
		})
	}

	return &Response{
		Text:         language.WelcomePrompt,
		QuickReplies: quickReplies,
		Buttons:      buttons,
	}
}

// handleConversation runs the ACTIVE state: translate to English if needed,
// invoke the agent, translate the reply back
func (w *Workflow) handleConversation(ctx context.Context, platform, userID, text, userLanguage string) *Response {
	englishMessage := text
	if userLanguage != "en" {
		result := w.translator.Translate(ctx, text, "en", userLanguage)
		if result.Degraded {
			w.logger.Warn("Inbound translation degraded to pass-through",
				zap.String("user_language", userLanguage),
				zap.String("reason", result.Reason),
			)
		}
		englishMessage = result.Text
	}

	// The platform user id doubles as the session id so the agent keeps
	// one conversation thread per user
	reply, err := w.agent.Invoke(ctx, englishMessage, userID)
	if err != nil {
		w.logger.Error("Agent invocation failed, sending localized error",
			zap.String("platform", platform),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return &Response{Text: language.ErrorMessage(userLanguage)}
	}

	if userLanguage != "en" {
		result := w.translator.Translate(ctx, reply, userLanguage, "en")
		if result.Degraded {
			w.logger.Warn("Outbound translation degraded to pass-through",
				zap.String("user_language", userLanguage),
				zap.String("reason", result.Reason),
			)
		}
		reply = result.Text
	}

	return &Response{Text: reply}
}
