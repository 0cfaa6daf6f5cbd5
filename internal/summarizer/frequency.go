package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var (
	tokenPattern    = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’][\p{L}\p{N}]+)*`)
	sentencePattern = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

// queryWeight is added per question term found in a sentence.
const queryWeight = 2.0

// FrequencySummarizer ranks sentences by word frequency (stopwords filtered).
type FrequencySummarizer struct {
	stopwords map[string]struct{}
}

// NewFrequencySummarizer creates a frequency-based sentence ranker summarizer.
func NewFrequencySummarizer() *FrequencySummarizer {
	return &FrequencySummarizer{stopwords: defaultStopwords()}
}

// Summarize returns a short summary by ranking sentences using token frequency.
func (s *FrequencySummarizer) Summarize(text string, maxSentences int) string {
	return s.SummarizeFor(text, "", maxSentences)
}

// SummarizeFor ranks sentences of text by token frequency, boosting the ones
// that share terms with query. Selected sentences keep their original order.
func (s *FrequencySummarizer) SummarizeFor(text, query string, maxSentences int) string {
	if maxSentences <= 0 {
		maxSentences = 3
	}
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return ""
	}
	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range s.tokens(sent) {
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		maxF = math.Max(maxF, v)
	}
	if maxF > 0 {
		for k, v := range freq {
			freq[k] = v / maxF
		}
	}
	qset := make(map[string]struct{})
	for _, tok := range s.tokens(query) {
		qset[tok] = struct{}{}
	}

	type pair struct {
		idx   int
		score float64
	}
	scores := make([]pair, len(sentences))
	for i, sent := range sentences {
		toks := s.tokens(sent)
		score := 0.0
		seen := make(map[string]struct{}, len(toks))
		for _, tok := range toks {
			score += freq[tok]
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			if _, ok := qset[tok]; ok {
				score += queryWeight
			}
		}
		// Normalize by sentence length to avoid bias
		if l := float64(len(toks)); l > 0 {
			score /= math.Sqrt(l)
		}
		scores[i] = pair{i, score}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if maxSentences > len(scores) {
		maxSentences = len(scores)
	}
	selected := make([]int, maxSentences)
	for i := 0; i < maxSentences; i++ {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)
	out := make([]string, 0, len(selected))
	for _, idx := range selected {
		out = append(out, sentences[idx])
	}
	return strings.Join(out, " ")
}

func (s *FrequencySummarizer) tokens(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, ok := s.stopwords[t]; ok {
			continue
		}
		out = append(out, t)
	}
	return out
}

func splitSentences(text string) []string {
	var out []string
	for _, sent := range sentencePattern.FindAllString(text, -1) {
		if sent = strings.TrimSpace(sent); sent != "" {
			out = append(out, sent)
		}
	}
	if len(out) == 0 {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			out = []string{trimmed}
		}
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
		"what", "which", "who", "whom", "where", "when", "why", "how", "does", "do", "did",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
