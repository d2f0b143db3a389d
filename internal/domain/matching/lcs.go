package matching

import (
	"errors"

	"github.com/covelotage/service-matching/internal/domain/geo"
	"github.com/covelotage/service-matching/internal/domain/route"
)

// ErrEmptyRoute is returned when similarity is requested against a route with
// no waypoints.
var ErrEmptyRoute = errors.New("route has no waypoints")

// MatchResult pairs a candidate route with its spatial similarity to the
// requester's path. Ephemeral: computed on demand, never persisted.
type MatchResult struct {
	Route      *route.Route
	Similarity float64
	CommonPath []geo.Point
}

// LongestCommonSubsequence returns the longest ordered subsequence common to
// both coordinate sequences. Points are compared under exact value equality,
// not geo-tolerant equality: only routes sharing bit-identical waypoints can
// match. Both paths are expected to derive from the same routing provider at
// the same resolution, which makes shared segments literally identical.
//
// The backtrack resolves dp ties by consuming from b first, which pins the
// returned subsequence down deterministically.
func LongestCommonSubsequence(a, b []geo.Point) []geo.Point {
	m, n := len(a), len(b)
	if m == 0 || n == 0 {
		return nil
	}

	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else if dp[i-1][j] >= dp[i][j-1] {
				dp[i][j] = dp[i-1][j]
			} else {
				dp[i][j] = dp[i][j-1]
			}
		}
	}

	lcs := make([]geo.Point, dp[m][n])
	i, j := m, n
	for i > 0 && j > 0 {
		switch {
		case a[i-1] == b[j-1]:
			lcs[dp[i][j]-1] = a[i-1]
			i--
			j--
		case dp[i-1][j] > dp[i][j-1]:
			i--
		default:
			j--
		}
	}

	return lcs
}

// Similarity scores the spatial overlap of two paths as the LCS length
// normalized by the shorter path's length. Range [0,1].
func Similarity(a, b []geo.Point) (float64, []geo.Point, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, nil, ErrEmptyRoute
	}

	lcs := LongestCommonSubsequence(a, b)

	shorter := len(a)
	if len(b) < shorter {
		shorter = len(b)
	}
	return float64(len(lcs)) / float64(shorter), lcs, nil
}

// CompareAgainstCandidates scores each candidate against the user's path and
// keeps those strictly above the threshold. Output preserves candidate
// iteration order; it is not re-sorted by score.
func CompareAgainstCandidates(userPath []geo.Point, candidates []*route.Route, threshold float64) ([]MatchResult, error) {
	results := make([]MatchResult, 0, len(candidates))
	for _, candidate := range candidates {
		score, lcs, err := Similarity(userPath, candidate.Path())
		if err != nil {
			return nil, err
		}
		if score > threshold {
			results = append(results, MatchResult{
				Route:      candidate,
				Similarity: score,
				CommonPath: lcs,
			})
		}
	}
	return results, nil
}
