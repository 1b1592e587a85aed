package services

import "errors"

var (
	// ErrEmptyPlaceName is returned when a contribution names a blank location.
	ErrEmptyPlaceName = errors.New("place name is empty")

	// ErrContentRejected is returned when pasted or transcribed text fails
	// content screening before any route parsing happens.
	ErrContentRejected = errors.New("content rejected")

	// ErrNoRouteData is returned when screening passed but no usable route
	// could be extracted from the text.
	ErrNoRouteData = errors.New("no route data found in text")
)
