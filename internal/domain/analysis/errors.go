package analysis

import "errors"

// Error taxonomy. Handlers map ErrValidation to a client fault; everything
// else surfaces as a server fault.
var (
	// ErrParsing indicates document text extraction failed.
	ErrParsing = errors.New("document parsing failed")
	// ErrModelCall indicates the model transport failed after retries.
	ErrModelCall = errors.New("model call failed")
	// ErrExtraction indicates no usable JSON in a model completion.
	ErrExtraction = errors.New("no valid JSON in model response")
	// ErrValidation indicates malformed request input.
	ErrValidation = errors.New("validation failed")
	// ErrAggregation is defensive; summary computation should not fail.
	ErrAggregation = errors.New("summary aggregation failed")
)
