package entity

import (
	"errors"
	"fmt"
)

// ActivationStatus is the lifecycle state of an account.
type ActivationStatus string

const (
	StatusPending     ActivationStatus = "PENDING"
	StatusDeactivated ActivationStatus = "DEACTIVATED"
	StatusActive      ActivationStatus = "ACTIVE"
	// StatusReset exists in the stored enum but no flow enters it yet.
	StatusReset ActivationStatus = "RESET"
)

var (
	ErrAlreadyActive     = errors.New("user already active")
	ErrInvalidTransition = errors.New("invalid activation status transition")
)

var statusTransitions = map[ActivationStatus]map[ActivationStatus]struct{}{
	StatusPending: {
		StatusActive:      {},
		StatusDeactivated: {},
	},
	StatusDeactivated: {
		StatusActive: {},
	},
	StatusReset: {
		StatusActive: {},
	},
}

func (s ActivationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusDeactivated, StatusActive, StatusReset:
		return true
	}
	return false
}

// CheckTransition reports whether s may move to target.
func (s ActivationStatus) CheckTransition(target ActivationStatus) error {
	if s == StatusActive && target == StatusActive {
		return ErrAlreadyActive
	}
	if _, ok := statusTransitions[s][target]; !ok {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, target)
	}
	return nil
}

// ParseActivationStatus maps a stored value to a status.
func ParseActivationStatus(s string) (ActivationStatus, error) {
	st := ActivationStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown activation status %q", s)
	}
	return st, nil
}
