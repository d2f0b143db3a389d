package matching

import (
	"testing"
	"time"

	"github.com/covelotage/service-matching/internal/domain/geo"
	"github.com/covelotage/service-matching/internal/domain/route"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParsePath(t *testing.T, texts ...string) []geo.Point {
	t.Helper()
	path, err := geo.ParsePath(texts)
	require.NoError(t, err)
	return path
}

func testRoute(t *testing.T, owner uuid.UUID, name string, path []geo.Point) *route.Route {
	t.Helper()
	r, err := route.NewRoute(owner, name, "start", "end", path, route.Schedule{}, "")
	require.NoError(t, err)
	return r
}

func TestLongestCommonSubsequence_PrefixOverlap(t *testing.T) {
	a := mustParsePath(t, "[0,0]", "[0,1]", "[0,2]")
	b := mustParsePath(t, "[0,0]", "[0,1]", "[0,2]", "[0,3]")

	lcs := LongestCommonSubsequence(a, b)
	assert.Equal(t, a, lcs)
}

func TestLongestCommonSubsequence_NoOverlap(t *testing.T) {
	a := mustParsePath(t, "[0,0]", "[0,1]")
	b := mustParsePath(t, "[5,5]", "[5,6]")

	assert.Empty(t, LongestCommonSubsequence(a, b))
}

func TestLongestCommonSubsequence_SkipsNonSharedPoints(t *testing.T) {
	a := mustParsePath(t, "[0,0]", "[9,9]", "[0,2]", "[8,8]")
	b := mustParsePath(t, "[7,7]", "[0,0]", "[6,6]", "[0,2]")

	lcs := LongestCommonSubsequence(a, b)
	assert.Equal(t, mustParsePath(t, "[0,0]", "[0,2]"), lcs)
}

func TestLongestCommonSubsequence_ExactEqualityOnly(t *testing.T) {
	// Near-identical waypoints never match: equality is bit-exact.
	a := []geo.Point{{Lat: 1.0000001, Lng: 0}}
	b := []geo.Point{{Lat: 1.0000002, Lng: 0}}

	assert.Empty(t, LongestCommonSubsequence(a, b))
}

func TestLongestCommonSubsequence_TieBreakIsDeterministic(t *testing.T) {
	x := geo.Point{Lat: 1, Lng: 1}
	y := geo.Point{Lat: 2, Lng: 2}

	// Both [x] and [y] are valid answers of length 1; the backtrack must
	// always pick the one reached by consuming from b on dp ties.
	lcs := LongestCommonSubsequence([]geo.Point{x, y}, []geo.Point{y, x})
	require.Len(t, lcs, 1)
	assert.Equal(t, y, lcs[0])
}

func TestSimilarity_Identical(t *testing.T) {
	a := mustParsePath(t, "[0,0]", "[0,1]", "[0,2]")

	score, lcs, err := Similarity(a, a)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
	assert.Equal(t, a, lcs)
}

func TestSimilarity_NormalizedByShorterPath(t *testing.T) {
	a := mustParsePath(t, "[0,0]", "[0,1]", "[0,2]")
	b := mustParsePath(t, "[0,0]", "[0,1]", "[0,2]", "[0,3]")

	score, lcs, err := Similarity(a, b)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
	assert.Len(t, lcs, 3)
}

func TestSimilarity_Symmetric(t *testing.T) {
	a := mustParsePath(t, "[0,0]", "[1,1]", "[0,2]", "[3,3]")
	b := mustParsePath(t, "[0,0]", "[4,4]", "[0,2]", "[5,5]", "[6,6]")

	ab, _, err := Similarity(a, b)
	require.NoError(t, err)
	ba, _, err := Similarity(b, a)
	require.NoError(t, err)
	assert.Equal(t, ab, ba)
}

func TestSimilarity_Bounds(t *testing.T) {
	a := mustParsePath(t, "[0,0]", "[1,1]")
	b := mustParsePath(t, "[2,2]", "[3,3]", "[0,0]")

	score, _, err := Similarity(a, b)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestSimilarity_EmptyRoute(t *testing.T) {
	a := mustParsePath(t, "[0,0]", "[0,1]")

	_, _, err := Similarity(nil, a)
	assert.ErrorIs(t, err, ErrEmptyRoute)

	_, _, err = Similarity(a, nil)
	assert.ErrorIs(t, err, ErrEmptyRoute)
}

func TestCompareAgainstCandidates_ThresholdIsStrict(t *testing.T) {
	owner := uuid.New()
	// Requester shares exactly 2 of its 4 points, in order, with the candidate.
	userPath := mustParsePath(t, "[0,0]", "[1,1]", "[0,2]", "[2,2]")
	candidate := testRoute(t, owner, "commute",
		mustParsePath(t, "[0,0]", "[3,3]", "[0,2]", "[4,4]", "[5,5]"))

	results, err := CompareAgainstCandidates(userPath, []*route.Route{candidate}, 0.5)
	require.NoError(t, err)
	assert.Empty(t, results, "similarity 0.5 must not pass a 0.5 threshold")

	results, err = CompareAgainstCandidates(userPath, []*route.Route{candidate}, 0.4)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0.5, results[0].Similarity)
	assert.Equal(t, mustParsePath(t, "[0,0]", "[0,2]"), results[0].CommonPath)
}

func TestCompareAgainstCandidates_PreservesCandidateOrder(t *testing.T) {
	owner := uuid.New()
	userPath := mustParsePath(t, "[0,0]", "[0,1]", "[0,2]")

	low := testRoute(t, owner, "low",
		mustParsePath(t, "[0,0]", "[9,9]", "[8,8]"))
	high := testRoute(t, owner, "high",
		mustParsePath(t, "[0,0]", "[0,1]", "[0,2]"))

	results, err := CompareAgainstCandidates(userPath, []*route.Route{low, high}, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "low", results[0].Route.Name())
	assert.Equal(t, "high", results[1].Route.Name())
	assert.Greater(t, results[1].Similarity, results[0].Similarity)
}

func TestCompareAgainstCandidates_EmptyCandidatePathFails(t *testing.T) {
	userPath := mustParsePath(t, "[0,0]", "[0,1]")
	// A corrupted row can rehydrate with an empty path; scoring must fail
	// loudly instead of dividing by zero.
	bad := route.ReconstructRoute(uuid.New(), uuid.New(), "bad", "", "", nil,
		route.Schedule{}, "", 1, time.Now().UTC(), time.Now().UTC())

	_, err := CompareAgainstCandidates(userPath, []*route.Route{bad}, 0)
	assert.ErrorIs(t, err, ErrEmptyRoute)
}
