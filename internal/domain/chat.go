package domain

// Chat roles accepted by the AI router.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single turn of a conversation submitted to the AI router.
// Histories are request-scoped and never persisted by this service.
type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=system user assistant"`
	Content string `json:"content" binding:"required"`
}

// ValidRole reports whether r is one of the accepted chat roles.
func ValidRole(r string) bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// LastUserContent returns the content of the most recent user turn, or ""
// when the history has none. The realtime provider answers single queries,
// so the router collapses history to the latest user message for it.
func LastUserContent(msgs []ChatMessage) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == RoleUser {
			return msgs[i].Content
		}
	}
	return ""
}
