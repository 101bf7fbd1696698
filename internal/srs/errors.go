package srs

import "errors"

var (
	ErrInvalidRating     = errors.New("srs: invalid rating")
	ErrInvalidState      = errors.New("srs: invalid card state")
	ErrInvalidParameters = errors.New("srs: parameters out of bounds")
)
