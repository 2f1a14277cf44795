package storage

import (
	"errors"

	sent "github.com/revelaction/parlana/sentence"
)

// ErrNotFound is returned when a document is not in the store.
var ErrNotFound = errors.New("storage: doc not found")

// DocReader defines read operations for annotated document storage
type DocReader interface {
	// List returns the metadata (Id, Title, Labels, SourceHash) of all
	// documents, sorted by title. Sentences are not loaded.
	List() ([]sent.Doc, error)

	// Read returns a document by ID
	Read(id int) (sent.Doc, error)

	// SourceHash returns the hash of the component file the document with
	// the given title was annotated from.
	SourceHash(title string) (string, error)
}

// DocWriter defines write operations for annotated document storage
type DocWriter interface {
	// Write persists a document and its sentences, replacing any document
	// with the same title.
	Write(doc sent.Doc) error
}

// DocRepository combines read and write operations
type DocRepository interface {
	DocReader
	DocWriter
}
