package model

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is wrapped by every user input validation failure.
var ErrInvalidInput = errors.New("invalid input")

const (
	DefaultIVRank  = 40
	DefaultOIScore = 70
)

// UserInputs are the two manually supplied sliders.
type UserInputs struct {
	IVRank  int
	OIScore int
}

// DefaultUserInputs returns the slider defaults.
func DefaultUserInputs() UserInputs {
	return UserInputs{IVRank: DefaultIVRank, OIScore: DefaultOIScore}
}

// Validate checks both sliders are within [0,100].
func (u UserInputs) Validate() error {
	if u.IVRank < 0 || u.IVRank > 100 {
		return fmt.Errorf("%w: iv rank must be within 0-100, got %d", ErrInvalidInput, u.IVRank)
	}
	if u.OIScore < 0 || u.OIScore > 100 {
		return fmt.Errorf("%w: oi score must be within 0-100, got %d", ErrInvalidInput, u.OIScore)
	}
	return nil
}
