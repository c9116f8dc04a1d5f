package game

import "errors"

var (
	ErrBadDimensions = errors.New("invalid board dimensions")
	ErrBadPlayer     = errors.New("invalid player")
	ErrBadCell       = errors.New("invalid cell")
)
