package contract

import "errors"

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrPromptMissing   = errors.New("required prompt is missing")
	ErrValidation      = errors.New("validation failed")
	ErrUnknownAgent    = errors.New("unknown agent type")
	ErrUnknownTool     = errors.New("tool is not available for agent")
	ErrToolRounds      = errors.New("tool call rounds exhausted")
)
