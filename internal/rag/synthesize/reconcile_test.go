package synthesize

import (
	"strings"
	"testing"

	"github.com/akolanti/PDFChatAPI/internal/domain/chatModel"
)

func sampleChunks() []chatModel.RetrievedChunk {
	return []chatModel.RetrievedChunk{
		{
			ChunkId: "c0", Page: 3, Source: "Q3 Report",
			Content: "The quarter went well overall. Total revenue was $5.2M in Q3. Costs stayed flat compared to Q2.",
		},
		{
			ChunkId: "c1", Page: 7, Source: "Q3 Report",
			Content: "Headcount grew by twelve. Most new hires joined the platform team.",
		},
	}
}

func TestReconcile_ExactQuoteExpandsToSentence(t *testing.T) {
	got := reconcile(
		[]rawCitation{{Id: 0, Quote: "$5.2M"}},
		sampleChunks(),
		"What is the total revenue?",
	)

	if len(got) != 1 {
		t.Fatalf("got %d citations, want 1", len(got))
	}
	if !strings.Contains(got[0].Content, "$5.2M") {
		t.Errorf("citation lost the matched text: %q", got[0].Content)
	}
	if got[0].Content != "Total revenue was $5.2M in Q3." {
		t.Errorf("expected the full containing sentence, got %q", got[0].Content)
	}
	if got[0].Page != 3 || got[0].Source != "Q3 Report" {
		t.Errorf("metadata must come from the chunk, got page=%d source=%q", got[0].Page, got[0].Source)
	}
}

func TestReconcile_OutOfRangeDroppedSilently(t *testing.T) {
	got := reconcile(
		[]rawCitation{
			{Id: 99, Quote: "anything"},
			{Id: -1, Quote: "anything"},
			{Id: 1, Quote: "Headcount grew by twelve."},
		},
		sampleChunks(),
		"how many hires?",
	)

	if len(got) != 1 {
		t.Fatalf("got %d citations, want 1", len(got))
	}
	if got[0].ChunkId != "c1" {
		t.Errorf("got chunk %s, want c1", got[0].ChunkId)
	}
}

func TestReconcile_ParaphraseRecoversSourceText(t *testing.T) {
	// model appended its own words but a long run still matches the source
	got := reconcile(
		[]rawCitation{{Id: 0, Quote: "revenue was $5.2M in Q3. Costs stayed flat this quarter"}},
		sampleChunks(),
		"What is the total revenue?",
	)

	if len(got) != 1 {
		t.Fatalf("got %d citations, want 1", len(got))
	}
	if !strings.Contains(sampleChunks()[0].Content, got[0].Content) {
		t.Errorf("citation should be source text, got %q", got[0].Content)
	}
}

func TestReconcile_ShortMismatchFallsBackToModelText(t *testing.T) {
	got := reconcile(
		[]rawCitation{{Id: 0, Quote: "revenue up"}},
		sampleChunks(),
		"revenue?",
	)

	if len(got) != 1 {
		t.Fatalf("got %d citations, want 1", len(got))
	}
	if got[0].Content != "revenue up" {
		t.Errorf("expected the model's own text, got %q", got[0].Content)
	}
	// metadata still from the chunk even for unverified text
	if got[0].Page != 3 || got[0].Source != "Q3 Report" {
		t.Errorf("metadata must come from the chunk, got page=%d source=%q", got[0].Page, got[0].Source)
	}
}

func TestReconcile_DeduplicatesByChunkFirstSeen(t *testing.T) {
	got := reconcile(
		[]rawCitation{
			{Id: 1, Quote: "Headcount grew by twelve."},
			{Id: 0, Quote: "$5.2M"},
			{Id: 1, Quote: "Most new hires joined the platform team."},
		},
		sampleChunks(),
		"question",
	)

	if len(got) != 2 {
		t.Fatalf("got %d citations, want 2", len(got))
	}
	if got[0].ChunkId != "c1" || got[1].ChunkId != "c0" {
		t.Errorf("first-seen order broken: %s, %s", got[0].ChunkId, got[1].ChunkId)
	}
}

func TestReconcile_IndexOnlyPicksQueryRelevantSentence(t *testing.T) {
	got := reconcile(
		[]rawCitation{{Id: 0}},
		sampleChunks(),
		"What is the total revenue?",
	)

	if len(got) != 1 {
		t.Fatalf("got %d citations, want 1", len(got))
	}
	if got[0].Content != "Total revenue was $5.2M in Q3." {
		t.Errorf("expected the sentence sharing the most query words, got %q", got[0].Content)
	}
}

func TestLongestCommonSubstring(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		claim   string
		wantLen int
		want    string
	}{
		{"Identical", "hello world", "hello world", 11, "hello world"},
		{"Shared_Middle", "abc Total revenue was high xyz", "he said Total revenue was high!", 23, " Total revenue was high"},
		{"No_Overlap", "aaaa", "bbbb", 0, ""},
		{"Empty_Claim", "content", "", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, length := longestCommonSubstring(tt.source, tt.claim)
			if length != tt.wantLen {
				t.Fatalf("length got %d, want %d", length, tt.wantLen)
			}
			if length > 0 && tt.source[start:start+length] != tt.want {
				t.Errorf("substring got %q, want %q", tt.source[start:start+length], tt.want)
			}
		})
	}
}

func TestSplitSentences(t *testing.T) {
	spans := splitSentences("First one. Second one! Third one")
	if len(spans) != 3 {
		t.Fatalf("got %d sentences, want 3", len(spans))
	}
	if spans[2].text != "Third one" {
		t.Errorf("trailing sentence got %q", spans[2].text)
	}
}
