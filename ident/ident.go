// Package ident generates the hierarchical xml:id values of one TEI
// document:
//
//	<doc>.u<N>              utterance
//	<doc>.u<N>.seg<M>       segment
//	<seg>.<k>               sentence
//	<s>.<t>                 token
//
// A Sequencer is owned by exactly one document traversal and is not safe
// for concurrent use.
package ident

import (
	"strconv"
)

type Sequencer struct {
	docID string

	utterance int
	segment   int

	// per segment id and per sentence id counters
	sentences map[string]int
	tokens    map[string]int

	claimed map[string]struct{}
}

func NewSequencer(docID string) *Sequencer {
	return &Sequencer{
		docID:     docID,
		sentences: map[string]int{},
		tokens:    map[string]int{},
		claimed:   map[string]struct{}{},
	}
}

// DocID returns the document identifier all generated ids are rooted at.
func (s *Sequencer) DocID() string {
	return s.docID
}

// NextUtterance starts a new utterance and resets the segment counter.
func (s *Sequencer) NextUtterance() string {
	s.utterance++
	s.segment = 0
	return s.utteranceID()
}

// NextSegment returns the id of the next segment of the current utterance.
func (s *Sequencer) NextSegment() string {
	s.segment++
	return s.utteranceID() + ".seg" + strconv.Itoa(s.segment)
}

// NextSentence returns the id of the next sentence of segmentID. Sentence
// numbers of a segment only grow, however many times the segment is
// annotated within this traversal.
func (s *Sequencer) NextSentence(segmentID string) string {
	s.sentences[segmentID]++
	return segmentID + "." + strconv.Itoa(s.sentences[segmentID])
}

// NextToken returns the id of the next token of sentenceID, starting at 1
// for every new sentence.
func (s *Sequencer) NextToken(sentenceID string) string {
	s.tokens[sentenceID]++
	return sentenceID + "." + strconv.Itoa(s.tokens[sentenceID])
}

// Claim registers id as used in the document. It returns false if id was
// already claimed.
func (s *Sequencer) Claim(id string) bool {
	if _, ok := s.claimed[id]; ok {
		return false
	}
	s.claimed[id] = struct{}{}
	return true
}

// Claimed reports whether id is in use.
func (s *Sequencer) Claimed(id string) bool {
	_, ok := s.claimed[id]
	return ok
}

func (s *Sequencer) utteranceID() string {
	return s.docID + ".u" + strconv.Itoa(s.utterance)
}
