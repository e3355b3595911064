package engine

import "errors"

var (
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidConfig    = errors.New("invalid game config")
	ErrUnknownColor     = errors.New("unknown color")
	ErrGameOver         = errors.New("game is over")
)
