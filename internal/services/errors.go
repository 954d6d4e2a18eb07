// Package services defines the business logic for drafts, generation, and the
// GitHub snapshot. This file centralizes common service-level error values so
// that they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the handler
// layer.
package services

import "errors"

var (
	// ErrDraftNotFound indicates that the requested draft does not exist.
	ErrDraftNotFound = errors.New("draft not found")

	// ErrEmptyContent is returned when a draft is saved or updated with an
	// empty body.
	ErrEmptyContent = errors.New("content is empty")

	// ErrInvalidSource is returned when a draft or generation request names an
	// unknown source kind.
	ErrInvalidSource = errors.New("invalid source")

	// ErrInvalidTransition is returned when a status update would move a draft
	// backwards in its lifecycle.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrMissingInput is returned when a generation request lacks a required
	// field. Callers wrap it with the field name.
	ErrMissingInput = errors.New("missing required input")

	// ErrNoAPIKey is returned when generation is attempted without a
	// configured Groq API key.
	ErrNoAPIKey = errors.New("groq api key not configured")

	// ErrNotConnected is returned when GitHub-sourced generation is attempted
	// without a cached snapshot.
	ErrNotConnected = errors.New("github account not connected")

	// ErrNoLinkedInAccount is returned when publishing is attempted without a
	// stored LinkedIn token and member id.
	ErrNoLinkedInAccount = errors.New("linkedin account not connected")

	// ErrGenerationInFlight is returned when a generation for the same source
	// kind is already running.
	ErrGenerationInFlight = errors.New("generation already in progress")

	// ErrPublishInFlight is returned when a publish for the same draft is
	// already running.
	ErrPublishInFlight = errors.New("publish already in progress")
)
