package conllu

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/parlana/entity"
	sent "github.com/revelaction/parlana/sentence"
)

const twoSentences = `# sent_id = 1
# text = the European Commission announced .
1	the	the	DET	DT	Definite=Def|PronType=Art	3	det	_	NER=O
2	European	European	PROPN	NNP	Number=Sing	3	compound	_	NER=B-ORGANIZATION
3	Commission	Commission	PROPN	NNP	Number=Sing	4	nsubj	_	NER=I-ORGANIZATION
4	announced	announce	VERB	VBD	_	0	ROOT	_	_
5	.	.	PUNCT	.	_	4	punct	_	SpaceAfter=No

# sent_id = 2
1-2	della	_	_	_	_	_	_	_	_
1	di	di	ADP	E	_	2	case	_	_
2	la	il	DET	RD	_	0	root	_	_
2.1	x	x	X	X	_	_	_	_	_
`

func TestDecode(t *testing.T) {
	sentences, err := Decode(strings.NewReader(twoSentences))
	require.NoError(t, err)
	require.Len(t, sentences, 2)

	s := sentences[0]
	require.Len(t, s.Tokens, 5)

	tok := s.Tokens[3]
	assert.Equal(t, 4, tok.Id)
	assert.Equal(t, "announced", tok.Text)
	assert.Equal(t, "announce", tok.Lemma)
	assert.Equal(t, "VERB", tok.Pos)
	assert.Equal(t, "VBD", tok.Tag)
	assert.Equal(t, "", tok.Feats)
	assert.Equal(t, 0, tok.Head)
	assert.Equal(t, "ROOT", tok.Dep)

	assert.Equal(t, "Definite=Def|PronType=Art", s.Tokens[0].Feats)
	assert.True(t, s.Tokens[4].IsPunct())

	require.Len(t, s.Entities, 1)
	assert.Equal(t, entity.Span{Label: "ORGANIZATION", Positions: []int{2, 3}}, s.Entities[0])

	// range and empty node lines are skipped
	s = sentences[1]
	require.Len(t, s.Tokens, 2)
	assert.Equal(t, "di", s.Tokens[0].Text)
	assert.Equal(t, "la", s.Tokens[1].Text)
	assert.Empty(t, s.Entities)
}

func TestDecodeEntities(t *testing.T) {
	input := strings.Join([]string{
		"1\tIon\tIon\tPROPN\t_\t_\t0\troot\t_\tNER=B-PERSON",
		"2\tPopescu\tPopescu\tPROPN\t_\t_\t1\tflat\t_\tNER=I-PERSON",
		"3\tBucharest\tBucharest\tPROPN\t_\t_\t1\tobl\t_\tNER=B-GPE",
		"4\tParis\tParis\tPROPN\t_\t_\t1\tconj\t_\tNER=U-GPE",
		"5\tRome\tRome\tPROPN\t_\t_\t1\tconj\t_\tNER=I-GPE",
		"6\tand\tand\tCCONJ\t_\t_\t1\tcc\t_\tSpaceAfter=No|NER=O",
		"7\tNATO\tNATO\tPROPN\t_\t_\t1\tconj\t_\tNER=I-ORG",
	}, "\n") + "\n"

	sentences, err := Decode(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, sentences, 1)

	assert.Equal(t, []entity.Span{
		{Label: "PERSON", Positions: []int{1, 2}},
		{Label: "GPE", Positions: []int{3}},
		{Label: "GPE", Positions: []int{4}},
		{Label: "GPE", Positions: []int{5}},
		{Label: "ORG", Positions: []int{7}},
	}, sentences[0].Entities)
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode(strings.NewReader("1\tonly\tthree\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))

	_, err = Decode(strings.NewReader("x\ta\ta\tX\tX\t_\t0\troot\t_\t_\n"))
	assert.True(t, errors.Is(err, ErrMalformed))

	_, err = Decode(strings.NewReader("1\ta\ta\tX\tX\t_\tz\troot\t_\t_\n"))
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestDecodeEmpty(t *testing.T) {
	sentences, err := Decode(strings.NewReader("\n\n# only a comment\n"))
	require.NoError(t, err)
	assert.Empty(t, sentences)
}

func TestEncodeDecode(t *testing.T) {
	in := []sent.Sentence{
		{
			Tokens: []sent.Token{
				{Id: 1, Text: "Guvernul", Lemma: "guvern", Pos: "NOUN", Tag: "Ncmsry", Feats: "Case=Acc,Nom|Definite=Def", Head: 2, Dep: "nsubj"},
				{Id: 2, Text: "vorbește", Lemma: "vorbi", Pos: "VERB", Tag: "Vmip3s", Head: 0, Dep: "ROOT"},
				{Id: 3, Text: ".", Pos: "PUNCT", Tag: "PERIOD", Head: 2, Dep: "punct"},
			},
			Entities: []entity.Span{{Label: "ORGANIZATION", Positions: []int{1}}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, in))

	out, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
