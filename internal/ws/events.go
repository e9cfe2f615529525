package ws

import "crafting_arena/internal/domain"

// GameEvent is the wire shape of one feed message.
type GameEvent struct {
	Type string       `json:"type"`
	Game *domain.Game `json:"game"`
}
