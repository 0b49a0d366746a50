package semantic

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"regexp"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// DefaultDimensions matches the width of common small sentence-embedding models.
const DefaultDimensions = 384

// Embedder turns texts into fixed-width dense vectors. Identical input must
// yield identical output.
type Embedder interface {
	EmbedStrings(ctx context.Context, texts []string) ([][]float64, error)
	Dimensions() int
}

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_+#.]+`)

// HashingEmbedder is a local, model-free embedder: unigrams and bigrams are
// hashed into a fixed number of signed buckets and the vector is l2-normalised.
type HashingEmbedder struct {
	dims int
}

func NewHashingEmbedder(dims int) *HashingEmbedder {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &HashingEmbedder{dims: dims}
}

func (h *HashingEmbedder) Dimensions() int { return h.dims }

func (h *HashingEmbedder) EmbedStrings(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, 0, len(texts))
	for _, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, h.embed(text))
	}
	return out, nil
}

func (h *HashingEmbedder) embed(text string) []float64 {
	vec := make([]float64, h.dims)

	tokens := wordPattern.FindAllString(strings.ToLower(text), -1)
	for i, tok := range tokens {
		tok = strings.Trim(tok, ".")
		if tok == "" {
			continue
		}
		h.add(vec, tok, 1)
		if i+1 < len(tokens) {
			if next := strings.Trim(tokens[i+1], "."); next != "" {
				h.add(vec, tok+" "+next, 0.5)
			}
		}
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

func (h *HashingEmbedder) add(vec []float64, feature string, weight float64) {
	sum := xxhash.Sum64String(feature)
	idx := sum % uint64(h.dims)
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[idx] += weight
}

// CachedEmbedder memoises vectors by content hash so a job description is
// embedded once per batch. It is safe for concurrent use.
type CachedEmbedder struct {
	next Embedder

	mu    sync.RWMutex
	cache map[string][]float64
}

func NewCachedEmbedder(next Embedder) *CachedEmbedder {
	return &CachedEmbedder{next: next, cache: make(map[string][]float64)}
}

func (c *CachedEmbedder) Dimensions() int { return c.next.Dimensions() }

func (c *CachedEmbedder) EmbedStrings(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	keys := make([]string, len(texts))

	var missing []int
	c.mu.RLock()
	for i, text := range texts {
		keys[i] = hashText(text)
		if vec, ok := c.cache[keys[i]]; ok {
			out[i] = vec
			continue
		}
		missing = append(missing, i)
	}
	c.mu.RUnlock()

	if len(missing) == 0 {
		return out, nil
	}

	pending := make([]string, 0, len(missing))
	for _, i := range missing {
		pending = append(pending, texts[i])
	}

	vectors, err := c.next.EmbedStrings(ctx, pending)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(pending) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(pending))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for j, i := range missing {
		out[i] = vectors[j]
		c.cache[keys[i]] = vectors[j]
	}
	return out, nil
}

// Len reports the number of cached vectors.
func (c *CachedEmbedder) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
