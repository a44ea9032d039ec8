package models

import "errors"

// Custom errors
var (
	ErrUnknownSport = errors.New("unknown sport")
	ErrNoQuotes     = errors.New("market has no quotes")
)
