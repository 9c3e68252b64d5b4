package service

import "errors"

var (
	// ErrEmptyDescription is returned when an intake run is started without
	// a description of the legal issue.
	ErrEmptyDescription = errors.New("description is required")

	// ErrJobNotFound is returned when an intake job id is unknown.
	ErrJobNotFound = errors.New("intake job not found")

	// ErrCaseNotFound is returned when the referenced case does not exist.
	ErrCaseNotFound = errors.New("case not found")

	// ErrEmptyMessage is returned when a chat turn is submitted with an
	// empty message.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrIncompleteAIResponse is returned when the AI structuring result is
	// missing a required field.
	ErrIncompleteAIResponse = errors.New("AI response is incomplete or invalid. Missing title or case_type")

	// ErrUnknownDocumentType is returned when a generator request names a
	// document type outside the supported set.
	ErrUnknownDocumentType = errors.New("unknown document type")

	// ErrMissingDetails is returned when a generator request has no details.
	ErrMissingDetails = errors.New("details are required")

	// ErrEmptyAIResponse is returned when the model produced no usable output.
	ErrEmptyAIResponse = errors.New("empty response from model")
)
