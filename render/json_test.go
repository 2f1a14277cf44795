package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/revelaction/parlana/entity"
	sent "github.com/revelaction/parlana/sentence"
)

func TestJSONRendererRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONRenderer(&buf)
	if err := r.Render(nil); err != nil {
		t.Fatalf("render: %v", err)
	}

	var results []sent.Sentence
	if err := json.Unmarshal(buf.Bytes(), &results); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if results == nil || len(results) != 0 {
		t.Fatalf("expected empty array, got %q", buf.String())
	}
}

func TestJSONRendererRenderOneSentence(t *testing.T) {
	s := sent.Sentence{
		Id:        "d.u1.seg1.1",
		SegmentId: "d.u1.seg1",
		Tokens: []sent.Token{
			{Id: 1, Lemma: "guvern", Text: "Guvernul", Pos: "NOUN", Dep: "root"},
			{Id: 2, Text: ".", Pos: "PUNCT", Head: 1, Dep: "punct"},
		},
		Entities: []entity.Span{{Label: "ORGANIZATION", Positions: []int{1}}},
	}

	var buf bytes.Buffer
	r := NewJSONRenderer(&buf)
	if err := r.Render([]sent.Sentence{s}); err != nil {
		t.Fatalf("render: %v", err)
	}

	var results []sent.Sentence
	if err := json.Unmarshal(buf.Bytes(), &results); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	if results[0].Id != "d.u1.seg1.1" {
		t.Errorf("expected id 'd.u1.seg1.1', got %q", results[0].Id)
	}

	if results[0].SegmentId != "d.u1.seg1" {
		t.Errorf("expected seg 'd.u1.seg1', got %q", results[0].SegmentId)
	}

	if len(results[0].Entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(results[0].Entities))
	}
}
