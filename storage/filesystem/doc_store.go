package filesystem

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	sent "github.com/revelaction/parlana/sentence"
	"github.com/revelaction/parlana/storage"
)

const docExt = ".json"

// DocStore keeps one JSON file per annotated document, named after its
// title. Ids are positions in the title order of List.
type DocStore struct {
	docDir string
}

var _ storage.DocRepository = (*DocStore)(nil)

// NewDocStore creates a filesystem document store, and its directory if
// needed.
func NewDocStore(docDir string) (*DocStore, error) {
	if err := os.MkdirAll(docDir, 0o755); err != nil {
		return nil, err
	}

	return &DocStore{docDir: docDir}, nil
}

func (h *DocStore) List() ([]sent.Doc, error) {
	files, err := os.ReadDir(h.docDir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, file := range files {
		if !file.IsDir() && filepath.Ext(file.Name()) == docExt {
			names = append(names, file.Name())
		}
	}
	sort.Strings(names)

	docs := make([]sent.Doc, 0, len(names))
	for idx, name := range names {
		doc, err := ReadDoc(filepath.Join(h.docDir, name))
		if err != nil {
			return nil, err
		}

		docs = append(docs, sent.Doc{
			Id:         idx,
			Title:      doc.Title,
			Labels:     doc.Labels,
			SourceHash: doc.SourceHash,
		})
	}

	return docs, nil
}

func (h *DocStore) Read(id int) (sent.Doc, error) {
	docs, err := h.List()
	if err != nil {
		return sent.Doc{}, err
	}

	if id < 0 || id >= len(docs) {
		return sent.Doc{}, fmt.Errorf("%w: %d", storage.ErrNotFound, id)
	}

	doc, err := ReadDoc(h.path(docs[id].Title))
	if err != nil {
		return sent.Doc{}, err
	}
	doc.Id = id

	return doc, nil
}

func (h *DocStore) SourceHash(title string) (string, error) {
	doc, err := ReadDoc(h.path(title))
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", storage.ErrNotFound, title)
	}
	if err != nil {
		return "", err
	}

	return doc.SourceHash, nil
}

// Write replaces the file of the doc title atomically.
func (h *DocStore) Write(doc sent.Doc) error {
	if doc.Title == "" || strings.ContainsAny(doc.Title, `/\`) {
		return fmt.Errorf("invalid doc title %q", doc.Title)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	path := h.path(doc.Title)
	tmp, err := os.CreateTemp(h.docDir, "."+doc.Title+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

func (h *DocStore) path(title string) string {
	return filepath.Join(h.docDir, title+docExt)
}

// ReadDoc reads a Doc JSON from the given path and unmarshals it.
func ReadDoc(path string) (sent.Doc, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return sent.Doc{}, fmt.Errorf("IO error: %w", err)
	}

	var doc sent.Doc
	err = json.Unmarshal(f, &doc)
	if err != nil {
		return sent.Doc{}, fmt.Errorf("JSON decoding error: %w", err)
	}

	return doc, nil
}
