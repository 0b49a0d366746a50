package matching

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

const maxFeatures = 1000

// ErrEmptyVocabulary is returned when no terms survive tokenization and
// stop-word removal.
var ErrEmptyVocabulary = errors.New("empty vocabulary; documents contain only stop words")

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// TextSimilarity compares two free-text documents.
type TextSimilarity interface {
	Similarity(text1, text2 string) (float64, error)
}

// TFIDF builds a vector space over exactly the two compared documents:
// 1-2 word n-grams, English stop words removed, smooth idf, l2-normalised rows.
type TFIDF struct {
	MaxFeatures int
}

// NewTFIDF returns a vectorizer capped at 1000 terms.
func NewTFIDF() *TFIDF {
	return &TFIDF{MaxFeatures: maxFeatures}
}

// TextKeywordSimilarity returns the TF-IDF cosine similarity of the two
// texts, or 0 when either is empty or vectorization fails.
func TextKeywordSimilarity(text1, text2 string) float64 {
	sim, err := NewTFIDF().Similarity(text1, text2)
	if err != nil {
		return 0
	}
	return sim
}

func (t *TFIDF) Similarity(text1, text2 string) (float64, error) {
	if strings.TrimSpace(text1) == "" || strings.TrimSpace(text2) == "" {
		return 0, nil
	}

	docs := [2]map[string]float64{termCounts(text1), termCounts(text2)}

	vocab := t.vocabulary(docs[:])
	if len(vocab) == 0 {
		return 0, ErrEmptyVocabulary
	}

	var vecs [2]map[string]float64
	for i, doc := range docs {
		vecs[i] = make(map[string]float64, len(doc))
		var norm float64
		for term := range vocab {
			tf, ok := doc[term]
			if !ok {
				continue
			}
			w := tf * idf(term, docs[:])
			vecs[i][term] = w
			norm += w * w
		}
		if norm == 0 {
			return 0, nil
		}
		norm = math.Sqrt(norm)
		for term := range vecs[i] {
			vecs[i][term] /= norm
		}
	}

	var dot float64
	for term, w := range vecs[0] {
		dot += w * vecs[1][term]
	}
	return math.Max(-1, math.Min(1, dot)), nil
}

// vocabulary keeps the most frequent terms across both documents; ties are
// broken alphabetically so the result is deterministic.
func (t *TFIDF) vocabulary(docs []map[string]float64) map[string]struct{} {
	totals := make(map[string]float64)
	for _, doc := range docs {
		for term, n := range doc {
			totals[term] += n
		}
	}

	terms := make([]string, 0, len(totals))
	for term := range totals {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if totals[terms[i]] != totals[terms[j]] {
			return totals[terms[i]] > totals[terms[j]]
		}
		return terms[i] < terms[j]
	})

	limit := t.MaxFeatures
	if limit <= 0 {
		limit = maxFeatures
	}
	if len(terms) > limit {
		terms = terms[:limit]
	}

	vocab := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		vocab[term] = struct{}{}
	}
	return vocab
}

func idf(term string, docs []map[string]float64) float64 {
	df := 0
	for _, doc := range docs {
		if _, ok := doc[term]; ok {
			df++
		}
	}
	n := float64(len(docs))
	return math.Log((1+n)/(1+float64(df))) + 1
}

func termCounts(text string) map[string]float64 {
	var tokens []string
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if _, stop := stopWords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}

	counts := make(map[string]float64, len(tokens)*2)
	for i, tok := range tokens {
		counts[tok]++
		if i+1 < len(tokens) {
			counts[tok+" "+tokens[i+1]]++
		}
	}
	return counts
}
