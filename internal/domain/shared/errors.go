package shared

import (
	"errors"
	"fmt"
)

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Lookup errors

type NotFoundError struct {
	*DomainError
	Entity string
	ID     string
}

func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{
		DomainError: &DomainError{Message: fmt.Sprintf("%s not found: %s", entity, id)},
		Entity:      entity,
		ID:          id,
	}
}

// IsNotFound reports whether err (or anything it wraps) is a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err (or anything it wraps) is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Order errors

type OrderError struct {
	*DomainError
	ShipID string
}

func NewOrderError(shipID, message string) *OrderError {
	return &OrderError{
		DomainError: &DomainError{Message: fmt.Sprintf("ship %s: %s", shipID, message)},
		ShipID:      shipID,
	}
}

type InvalidTransitionError struct {
	*DomainError
	From string
	To   string
}

func NewInvalidTransitionError(entity, from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{
		DomainError: &DomainError{Message: fmt.Sprintf("invalid %s transition: %s -> %s", entity, from, to)},
		From:        from,
		To:          to,
	}
}

// Cargo errors

type InsufficientCargoError struct {
	*DomainError
	Resource  string
	Required  int
	Available int
}

func NewInsufficientCargoError(resource string, required, available int) *InsufficientCargoError {
	return &InsufficientCargoError{
		DomainError: &DomainError{Message: fmt.Sprintf("insufficient %s: need %d, have %d", resource, required, available)},
		Resource:    resource,
		Required:    required,
		Available:   available,
	}
}

// Turn errors

type TurnClaimError struct {
	*DomainError
	GameID string
	Turn   int
}

func NewTurnClaimError(gameID string, turn int) *TurnClaimError {
	return &TurnClaimError{
		DomainError: &DomainError{Message: fmt.Sprintf("game %s turn %d is already being resolved", gameID, turn)},
		GameID:      gameID,
		Turn:        turn,
	}
}
