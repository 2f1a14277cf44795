package nlp

import "errors"

var (
	// ErrEngine wraps every failure of the external NLP engine. The
	// annotation of the current document must be aborted.
	ErrEngine = errors.New("nlp: engine failure")

	// ErrClosed is returned by engines used after Close.
	ErrClosed = errors.New("nlp: engine closed")
)
