package synthesize

import (
	"strings"

	"github.com/akolanti/PDFChatAPI/internal/config"
	"github.com/akolanti/PDFChatAPI/internal/domain/chatModel"
)

// rawCitation is what the model claims: a context index plus an optional
// quote. Everything in it is untrusted until reconciled against the chunk.
type rawCitation struct {
	Id    int    `json:"id"`
	Quote string `json:"quote,omitempty"`
}

// reconcile maps model-claimed citations back onto the retrieved chunks.
// Out-of-range indices are dropped silently. Quote text is verified against
// the chunk: exact substring wins, then the longest common contiguous
// substring if long enough, then the model's own wording as a last resort.
// Page and source always come from chunk metadata, never from the model.
func reconcile(claimed []rawCitation, chunks []chatModel.RetrievedChunk, query string) []chatModel.Citation {
	var out []chatModel.Citation
	seen := make(map[string]bool, len(claimed))

	for _, c := range claimed {
		if c.Id < 0 || c.Id >= len(chunks) {
			continue
		}
		chunk := chunks[c.Id]
		if seen[chunk.ChunkId] {
			continue
		}
		seen[chunk.ChunkId] = true

		out = append(out, chatModel.Citation{
			Content: resolveQuote(c.Quote, chunk.Content, query),
			Page:    chunk.Page,
			Source:  chunk.Source,
			ChunkId: chunk.ChunkId,
		})
	}
	return out
}

// resolveQuote picks the citation text shown to the user. The source chunk is
// the ground truth: a verified span is expanded to its containing sentence so
// the UI highlight is readable, and only an unverifiable short quote falls
// back to the model's wording.
func resolveQuote(quote string, content string, query string) string {
	quote = strings.TrimSpace(quote)
	if quote == "" {
		// index-only citation, highlight the most question-relevant sentence
		return bestSentence(splitSentences(content), query)
	}

	if idx := strings.Index(content, quote); idx >= 0 {
		return expandToSentence(content, idx, idx+len(quote), query)
	}

	// model paraphrased or mangled whitespace; recover the real span if the
	// shared run is long enough to be the same text
	start, length := longestCommonSubstring(content, quote)
	if length >= config.MinQuoteOverlapChars {
		return expandToSentence(content, start, start+length, query)
	}

	return quote
}

// longestCommonSubstring returns the start offset in source and the length of
// the longest contiguous run shared with claim. Standard dynamic program, two
// rolling rows.
func longestCommonSubstring(source string, claim string) (int, int) {
	if len(source) == 0 || len(claim) == 0 {
		return 0, 0
	}

	prev := make([]int, len(claim)+1)
	curr := make([]int, len(claim)+1)
	bestLen, bestEnd := 0, 0

	for i := 1; i <= len(source); i++ {
		for j := 1; j <= len(claim); j++ {
			if source[i-1] == claim[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > bestLen {
					bestLen = curr[j]
					bestEnd = i
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
	}
	return bestEnd - bestLen, bestLen
}

// expandToSentence widens a matched span to whole sentences. If the span
// touches several sentences, the one sharing the most words with the query is
// kept, same tie-break as an index-only citation.
func expandToSentence(content string, start int, end int, query string) string {
	sentences := splitSentences(content)
	var covering []sentenceSpan
	for _, s := range sentences {
		if s.end > start && s.start < end {
			covering = append(covering, s)
		}
	}

	switch len(covering) {
	case 0:
		return strings.TrimSpace(content[start:end])
	case 1:
		return strings.TrimSpace(content[covering[0].start:covering[0].end])
	default:
		return bestSentence(covering, query)
	}
}

type sentenceSpan struct {
	start, end int
	text       string
}

func splitSentences(content string) []sentenceSpan {
	var out []sentenceSpan
	begin := 0
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '.', '!', '?', '\n':
			if text := strings.TrimSpace(content[begin : i+1]); text != "" {
				out = append(out, sentenceSpan{start: begin, end: i + 1, text: text})
			}
			begin = i + 1
		}
	}
	if text := strings.TrimSpace(content[begin:]); text != "" {
		out = append(out, sentenceSpan{start: begin, end: len(content), text: text})
	}
	return out
}

func bestSentence(sentences []sentenceSpan, query string) string {
	if len(sentences) == 0 {
		return ""
	}

	queryWords := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(query)) {
		queryWords[strings.Trim(w, ".,!?;:\"'")] = true
	}

	best, bestScore := sentences[0], -1
	for _, s := range sentences {
		score := 0
		for _, w := range strings.Fields(strings.ToLower(s.text)) {
			if queryWords[strings.Trim(w, ".,!?;:\"'")] {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = s, score
		}
	}
	return best.text
}
