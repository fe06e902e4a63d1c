package core

import (
	"github.com/google/uuid"
)

type PlayerType int

const (
	PlayerHuman PlayerType = iota + 1
	PlayerComputer
)

// Computer levels
const (
	LevelRandom = 0 // uniformly random legal move
	LevelGreedy = 1 // mate, best capture, check, then random
)

// Player is the complete game entity with all state
type Player struct {
	ID    string     `json:"id"`
	Color Color      `json:"color"`
	Type  PlayerType `json:"type"`
	Level int        `json:"level,omitempty"` // Only for computer
}

// PlayerConfig for API requests and configuration
type PlayerConfig struct {
	Type  PlayerType `json:"type" validate:"required,oneof=1 2"`
	Level int        `json:"level,omitempty" validate:"omitempty,min=0,max=1"`
}

// PlayersResponse for API responses
type PlayersResponse struct {
	White *Player `json:"white"`
	Black *Player `json:"black"`
}

// NewPlayer creates a Player from PlayerConfig
func NewPlayer(config PlayerConfig, color Color) *Player {
	player := &Player{
		ID:    uuid.New().String(),
		Color: color,
		Type:  config.Type,
	}

	if config.Type == PlayerComputer {
		player.Level = config.Level
	}

	return player
}
