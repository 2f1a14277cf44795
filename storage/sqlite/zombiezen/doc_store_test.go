package zombiezen

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/parlana/entity"
	sent "github.com/revelaction/parlana/sentence"
	"github.com/revelaction/parlana/storage"
)

func newStore(t *testing.T) *DocStore {
	t.Helper()
	pool, err := Open(filepath.Join(t.TempDir(), "parlana.db"))
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })
	return NewDocStore(pool)
}

func sampleDoc(title string, n int) sent.Doc {
	doc := sent.Doc{Title: title, Labels: []string{"ro", "2020"}, SourceHash: "h-" + title}
	for i := 0; i < n; i++ {
		doc.Sentences = append(doc.Sentences, sent.Sentence{
			Id:        title + ".u1.seg1." + string(rune('1'+i)),
			SegmentId: title + ".u1.seg1",
			Tokens: []sent.Token{
				{Id: 1, Text: "Guvernul", Lemma: "guvern", Pos: "NOUN", Head: 0, Dep: "root"},
				{Id: 2, Text: ".", Pos: "PUNCT", Head: 1, Dep: "punct"},
			},
			Entities: []entity.Span{{Label: "ORGANIZATION", Positions: []int{1}}},
		})
	}
	return doc
}

func TestDocStoreWriteRead(t *testing.T) {
	st := newStore(t)

	require.NoError(t, st.Write(sampleDoc("b", 2)))
	require.NoError(t, st.Write(sampleDoc("a", 1)))

	docs, err := st.List()
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].Title)
	assert.Equal(t, []string{"ro", "2020"}, docs[0].Labels)
	assert.Equal(t, "h-a", docs[0].SourceHash)
	assert.Empty(t, docs[0].Sentences)

	doc, err := st.Read(docs[1].Id)
	require.NoError(t, err)
	assert.Equal(t, "b", doc.Title)
	require.Len(t, doc.Sentences, 2)
	assert.Equal(t, sampleDoc("b", 2).Sentences, doc.Sentences)
}

func TestDocStoreReplacesTitle(t *testing.T) {
	st := newStore(t)

	require.NoError(t, st.Write(sampleDoc("a", 3)))

	again := sampleDoc("a", 1)
	again.SourceHash = "new"
	require.NoError(t, st.Write(again))

	docs, err := st.List()
	require.NoError(t, err)
	require.Len(t, docs, 1)

	doc, err := st.Read(docs[0].Id)
	require.NoError(t, err)
	assert.Len(t, doc.Sentences, 1)

	hash, err := st.SourceHash("a")
	require.NoError(t, err)
	assert.Equal(t, "new", hash)
}

func TestDocStoreNotFound(t *testing.T) {
	st := newStore(t)

	_, err := st.Read(42)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = st.SourceHash("nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
