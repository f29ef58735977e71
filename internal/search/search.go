// Package search ranks note-like items against a query by vector similarity.
//
// The default embedder hashes words into a small fixed-size bag-of-words
// vector. It is lexical, not semantic; swap in another Embedder for real
// embeddings.
package search

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/Tiliavir/nexus/internal/model"
)

const (
	// Dimensions is the vector size of the default embedder.
	Dimensions = 50
	// DefaultThreshold is the minimum similarity a result must exceed.
	DefaultThreshold = 0.1
)

// Embedder maps text to a fixed-length vector.
type Embedder interface {
	Embed(text string) []float64
}

// HashEmbedder counts words into Dim buckets; a word's bucket is the sum of
// its character codes modulo Dim.
type HashEmbedder struct {
	Dim int
}

var nonWord = regexp.MustCompile(`\W+`)

// Embed implements Embedder. Empty input yields a zero vector.
func (h HashEmbedder) Embed(text string) []float64 {
	dim := h.Dim
	if dim <= 0 {
		dim = Dimensions
	}
	vec := make([]float64, dim)
	for _, word := range nonWord.Split(strings.ToLower(text), -1) {
		if word == "" {
			continue
		}
		sum := 0
		for _, r := range word {
			sum += int(r)
		}
		vec[sum%dim]++
	}
	return vec
}

// Similarity is the cosine similarity of a and b, or 0 when either is a zero
// vector. Vectors of different length are compared over the shorter one.
func Similarity(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / math.Sqrt(normA*normB)
}

// Result is one ranked match.
type Result struct {
	Item  model.Item
	Score float64
}

// Engine ranks items against queries.
type Engine struct {
	Embedder  Embedder
	Threshold float64
}

// NewEngine returns an engine using the hash embedder and default threshold.
func NewEngine() *Engine {
	return &Engine{Embedder: HashEmbedder{Dim: Dimensions}, Threshold: DefaultThreshold}
}

// candidateText returns the searchable text of an item, or false when the
// item is not a search candidate.
func candidateText(it model.Item) (string, bool) {
	switch d := it.Details.(type) {
	case model.Note:
		return it.Content + " " + d.FileName, true
	case nil:
		return it.Content + " ", true
	case model.Code, model.Transaction, model.Event, model.Task, model.Project, model.Goal:
		return "", false
	default:
		return "", false
	}
}

// Search returns the note and file items scoring above the threshold,
// best first. Ties keep the input order.
func (e *Engine) Search(query string, items []model.Item) []Result {
	emb := e.Embedder
	if emb == nil {
		emb = HashEmbedder{Dim: Dimensions}
	}
	q := emb.Embed(query)

	results := []Result{}
	for _, it := range items {
		text, ok := candidateText(it)
		if !ok {
			continue
		}
		score := Similarity(q, emb.Embed(text))
		if score > e.Threshold {
			results = append(results, Result{Item: it, Score: score})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}
