package application

import (
	"context"
	"time"

	"github.com/covelotage/service-matching/internal/domain/geo"
	"github.com/covelotage/service-matching/internal/domain/matching"
	routeDomain "github.com/covelotage/service-matching/internal/domain/route"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FindMatchesRequest holds the requester's submitted path and schedule.
type FindMatchesRequest struct {
	Route    []string    `json:"route" binding:"required"`
	Planning PlanningDTO `json:"planning"`
}

// SimilarityDTO is one ranked match: the candidate route, its similarity
// score and the shared coordinate subsequence for path highlighting.
type SimilarityDTO struct {
	Route      RouteDTO `json:"route"`
	Similarity float64  `json:"similarity"`
	LCS        []string `json:"lcs"`
}

// MatchListDTO is the response of a match request.
type MatchListDTO struct {
	Similarities []SimilarityDTO `json:"similarities"`
}

// MatchService orchestrates a match request: it shortlists candidate routes
// by schedule compatibility, scores them spatially and returns everything
// strictly above the threshold. Each request is stateless; failures surface
// unchanged with no partial result.
type MatchService struct {
	repo      routeDomain.RouteRepository
	threshold float64
	logger    *zap.Logger
}

// NewMatchService creates a new MatchService with the given similarity
// threshold.
func NewMatchService(repo routeDomain.RouteRepository, threshold float64, logger *zap.Logger) *MatchService {
	return &MatchService{
		repo:      repo,
		threshold: threshold,
		logger:    logger,
	}
}

// FindMatches returns the candidate routes compatible with the requester's
// path and schedule. The requester's own routes are never candidates.
func (s *MatchService) FindMatches(ctx context.Context, requesterID uuid.UUID, req FindMatchesRequest) (*MatchListDTO, error) {
	userPath, err := geo.ParsePath(req.Route)
	if err != nil {
		return nil, err
	}
	schedule, err := toSchedule(req.Planning)
	if err != nil {
		return nil, err
	}

	criteria := matching.NewCriteria(schedule, time.Now().UTC())

	candidates, err := s.repo.FindCandidates(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	compatible := make([]*routeDomain.Route, 0, len(candidates))
	for _, candidate := range candidates {
		if criteria.Matches(candidate.Schedule()) {
			compatible = append(compatible, candidate)
		}
	}

	results, err := matching.CompareAgainstCandidates(userPath, compatible, s.threshold)
	if err != nil {
		return nil, err
	}

	s.logger.Info("match request completed",
		zap.String("requester_id", requesterID.String()),
		zap.Int("candidates", len(candidates)),
		zap.Int("schedule_compatible", len(compatible)),
		zap.Int("matches", len(results)),
	)

	return &MatchListDTO{Similarities: toSimilarityDTOs(results)}, nil
}

func toSimilarityDTOs(results []matching.MatchResult) []SimilarityDTO {
	dtos := make([]SimilarityDTO, len(results))
	for i, r := range results {
		dtos[i] = SimilarityDTO{
			Route:      toRouteDTO(r.Route),
			Similarity: r.Similarity,
			LCS:        geo.FormatPath(r.CommonPath),
		}
	}
	return dtos
}
