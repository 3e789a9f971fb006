package mining

import "math"

const (
	// textRankWindow is the co-occurrence window in tokens.
	textRankWindow = 4
	// textRankDamping is the standard PageRank damping factor.
	textRankDamping = 0.85
	// textRankIterations bounds the power iteration.
	textRankIterations = 50
	// textRankEpsilon stops iteration once scores settle.
	textRankEpsilon = 1e-6
)

// TextRank ranks terms by centrality in their co-occurrence graph:
// terms within textRankWindow positions of each other share an edge,
// and PageRank runs over the resulting undirected weighted graph.
// Scores are normalized so the top term scores 1. Returns the topK
// terms, ties broken lexicographically.
func TextRank(terms []string, topK int) []Scored {
	if len(terms) == 0 {
		return nil
	}

	// Undirected co-occurrence weights.
	edges := make(map[string]map[string]float64)
	addEdge := func(a, b string) {
		if a == b {
			return
		}
		if edges[a] == nil {
			edges[a] = make(map[string]float64)
		}
		if edges[b] == nil {
			edges[b] = make(map[string]float64)
		}
		edges[a][b]++
		edges[b][a]++
	}

	for i, term := range terms {
		end := i + textRankWindow
		if end > len(terms) {
			end = len(terms)
		}
		for j := i + 1; j < end; j++ {
			addEdge(term, terms[j])
		}
	}

	// Isolated terms (single-token documents) still deserve a node.
	rank := make(map[string]float64)
	for _, term := range terms {
		rank[term] = 1.0
	}

	weightSums := make(map[string]float64, len(edges))
	for term, nbrs := range edges {
		for _, w := range nbrs {
			weightSums[term] += w
		}
	}

	for range textRankIterations {
		next := make(map[string]float64, len(rank))
		var delta float64
		for term := range rank {
			sum := 0.0
			for nbr, w := range edges[term] {
				if ws := weightSums[nbr]; ws > 0 {
					sum += w / ws * rank[nbr]
				}
			}
			score := (1 - textRankDamping) + textRankDamping*sum
			next[term] = score
			delta += math.Abs(score - rank[term])
		}
		rank = next
		if delta < textRankEpsilon {
			break
		}
	}

	max := 0.0
	for _, score := range rank {
		if score > max {
			max = score
		}
	}

	scored := make([]Scored, 0, len(rank))
	for term, score := range rank {
		if max > 0 {
			score /= max
		}
		scored = append(scored, Scored{Term: term, Score: score})
	}
	return topScored(scored, topK)
}
