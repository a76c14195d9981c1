package model

import "errors"

var (
	// ErrJobExists is returned when a job with the same identity tuple is
	// already scheduled. Callers treat it as idempotent success.
	ErrJobExists = errors.New("job already scheduled")

	// ErrSettingNotFound is returned when a guild has no setting row.
	ErrSettingNotFound = errors.New("guild setting not found")

	// ErrInvalidOffset is returned for UTC offsets outside [-12, 12].
	ErrInvalidOffset = errors.New("utc offset must be between -12 and 12")

	// ErrInvalidTime is returned for hour/minute values outside 0-23 / 0-59.
	ErrInvalidTime = errors.New("invalid hour or minute")

	// ErrInvalidTimeExpression is returned when neither an hour nor a minute
	// could be parsed from a time expression.
	ErrInvalidTimeExpression = errors.New("unrecognized time expression")
)
