// Package conllu reads and writes CoNLL-U, the exchange format between the
// annotation adapter and the NLP engine.
// See https://universaldependencies.org/format.html
//
// Named entities are carried in the MISC column as BIO (or BILOU) tags under
// the NER key:
//
//	2	European	European	PROPN	NNP	_	3	compound	_	NER=B-ORGANIZATION
//	3	Commission	Commission	PROPN	NNP	_	4	nsubj	_	NER=I-ORGANIZATION
//
// Multiword token ranges (1-2) and empty nodes (1.1) are skipped.
package conllu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/revelaction/parlana/entity"
	sent "github.com/revelaction/parlana/sentence"
)

const (
	numFields = 10

	fieldSeparator = "\t"
	miscSeparator  = "|"
	empty          = "_"

	// NerKey is the MISC key holding the entity tag of a token.
	NerKey = "NER"
)

// ErrMalformed is returned for lines that are not valid CoNLL-U.
var ErrMalformed = errors.New("conllu: malformed input")

// Decode reads all sentences from r.
func Decode(r io.Reader) ([]sent.Sentence, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var sentences []sent.Sentence
	b := &sentenceBuilder{}

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")

		if strings.TrimSpace(line) == "" {
			if s, ok := b.flush(); ok {
				sentences = append(sentences, s)
			}
			continue
		}

		if strings.HasPrefix(line, "#") {
			continue
		}

		if err := b.add(line); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if s, ok := b.flush(); ok {
		sentences = append(sentences, s)
	}

	return sentences, nil
}

// Encode writes sentences to w, entity spans included.
func Encode(w io.Writer, sentences []sent.Sentence) error {
	bw := bufio.NewWriter(w)

	for _, s := range sentences {
		tags := nerTags(s)
		for _, t := range s.Tokens {
			fields := []string{
				strconv.Itoa(t.Id),
				t.Text,
				t.Lemma,
				t.Pos,
				t.Tag,
				t.Feats,
				strconv.Itoa(t.Head),
				t.Dep,
				empty,
				tags[t.Id],
			}
			for i, f := range fields {
				if f == "" {
					fields[i] = empty
				}
			}
			if _, err := bw.WriteString(strings.Join(fields, fieldSeparator) + "\n"); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}

	return bw.Flush()
}

type sentenceBuilder struct {
	tokens []sent.Token
	spans  []entity.Span

	// index in spans of the entity still accepting tokens, -1 if none
	open int
}

func (b *sentenceBuilder) add(line string) error {
	fields := strings.Split(line, fieldSeparator)
	if len(fields) != numFields {
		return fmt.Errorf("expected %d fields, got %d", numFields, len(fields))
	}

	if strings.ContainsAny(fields[0], "-.") {
		return nil
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return fmt.Errorf("invalid id %q", fields[0])
	}

	head := 0
	if fields[6] != empty {
		head, err = strconv.Atoi(fields[6])
		if err != nil {
			return fmt.Errorf("invalid head %q", fields[6])
		}
	}

	if len(b.tokens) == 0 {
		b.open = -1
	}

	tok := sent.Token{
		Id:    id,
		Text:  fields[1],
		Lemma: value(fields[2]),
		Pos:   value(fields[3]),
		Tag:   value(fields[4]),
		Feats: value(fields[5]),
		Head:  head,
		Dep:   value(fields[7]),
	}
	if tok.Lemma == "" && tok.Text == empty {
		tok.Lemma = empty
	}

	b.tokens = append(b.tokens, tok)
	b.entity(id, misc(fields[9], NerKey))

	return nil
}

// entity applies the BIO/BILOU tag of token id.
func (b *sentenceBuilder) entity(id int, tag string) {
	prefix, label, ok := strings.Cut(tag, "-")
	if !ok || label == "" {
		b.open = -1
		return
	}

	switch prefix {
	case "B", "U", "S":
		b.start(id, label)
	case "I", "L", "E":
		if b.open >= 0 && b.spans[b.open].Label == label {
			b.spans[b.open].Positions = append(b.spans[b.open].Positions, id)
		} else {
			b.start(id, label)
		}
	default:
		b.open = -1
		return
	}

	switch prefix {
	case "U", "S", "L", "E":
		b.open = -1
	}
}

func (b *sentenceBuilder) start(id int, label string) {
	b.spans = append(b.spans, entity.Span{Label: label, Positions: []int{id}})
	b.open = len(b.spans) - 1
}

func (b *sentenceBuilder) flush() (sent.Sentence, bool) {
	if len(b.tokens) == 0 {
		return sent.Sentence{}, false
	}

	s := sent.Sentence{Tokens: b.tokens, Entities: b.spans}
	b.tokens = nil
	b.spans = nil
	b.open = -1
	return s, true
}

func value(field string) string {
	if field == empty {
		return ""
	}
	return field
}

// misc returns the value of key in a MISC column, "" if absent.
func misc(field, key string) string {
	if field == empty {
		return ""
	}
	for _, kv := range strings.Split(field, miscSeparator) {
		k, v, ok := strings.Cut(kv, "=")
		if ok && k == key {
			return v
		}
	}
	return ""
}

// nerTags returns the MISC column of every token position of s.
func nerTags(s sent.Sentence) map[int]string {
	tags := make(map[int]string)
	for _, sp := range s.Entities {
		for i, pos := range sp.Positions {
			prefix := "I-"
			if i == 0 {
				prefix = "B-"
			}
			tags[pos] = NerKey + "=" + prefix + sp.Label
		}
	}
	return tags
}
