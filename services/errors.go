package services

import "errors"

// Общие ошибки сервисов.
var (
	// Ресурс не найден
	ErrBracketNotFound     = errors.New("bracket not found")
	ErrMatchNotFound       = errors.New("match not found")
	ErrParticipantNotFound = errors.New("participant not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed        = errors.New("validation failed")
	ErrNotEnoughParticipants   = errors.New("not enough participants to generate a bracket (minimum 2)")
	ErrDuplicateParticipant    = errors.New("participant id is already in use")
	ErrBracketNotInProgress    = errors.New("bracket is not in progress")
	ErrEmptySlot               = errors.New("winning slot has no participant")
	ErrBracketAlreadyFinalized = errors.New("bracket is already finalized")
)
