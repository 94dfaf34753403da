package domain

import (
	"errors"
	"fmt"
)

// Виды ошибок, по которым API выбирает HTTP статус
// Ошибки пакетов оборачивают один из видов через %w
var (
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")

	// ErrSlotUnavailable частный случай конфликта: запрошенного слота нет среди свободных
	ErrSlotUnavailable = fmt.Errorf("%w: slot unavailable", ErrConflict)
)
