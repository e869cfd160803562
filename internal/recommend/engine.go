// Package recommend ranks founder candidates for the nearby and recommended
// query intents. The engine is a pure function of its inputs and is the
// deterministic source of truth for founder lists returned to callers,
// regardless of what the language model claims.
package recommend

import (
	"sort"

	"go.uber.org/zap"

	"github.com/founderhub/founderhub/internal/founder"
	"github.com/founderhub/founderhub/internal/geo"
	"github.com/founderhub/founderhub/internal/match"
)

const (
	// DefaultRadiusKm bounds the nearby intent.
	DefaultRadiusKm = 50
	// DefaultMaxRecommended caps the recommended intent result.
	DefaultMaxRecommended = 5
)

// Ranked is one candidate in an engine result. DistanceKm is set for the
// nearby intent, Score for the recommended intent.
type Ranked struct {
	Founder    *founder.Founder
	DistanceKm *float64
	Score      *float64
}

type Engine struct {
	radiusKm       float64
	maxRecommended int
	logger         *zap.Logger
}

func NewEngine(radiusKm float64, maxRecommended int, logger *zap.Logger) *Engine {
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	if maxRecommended <= 0 {
		maxRecommended = DefaultMaxRecommended
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{radiusKm: radiusKm, maxRecommended: maxRecommended, logger: logger}
}

// RadiusKm is the nearby cutoff this engine ranks with.
func (e *Engine) RadiusKm() float64 { return e.radiusKm }

// MaxRecommended is the recommended-result cap this engine ranks with.
func (e *Engine) MaxRecommended() int { return e.maxRecommended }

// Recommend ranks candidates against the reference founder for the given
// intent. The reference founder is never part of the result. An empty
// eligible set yields an empty slice, not an error. IntentGeneral has no
// founder ranking and also yields an empty slice.
func (e *Engine) Recommend(intent Intent, reference *founder.Founder, candidates *founder.Founders) []Ranked {
	if reference == nil || candidates == nil {
		return []Ranked{}
	}

	switch intent {
	case IntentNearby:
		return e.nearby(reference, candidates)
	case IntentRecommended:
		return e.recommended(reference, candidates)
	default:
		return []Ranked{}
	}
}

// nearby keeps candidates with complete coordinates within the radius,
// closest first. Candidates without coordinates are skipped entirely rather
// than ranked last.
func (e *Engine) nearby(reference *founder.Founder, candidates *founder.Founders) []Ranked {
	if !reference.HasCoordinates() {
		e.logger.Debug("nearby ranking skipped", zap.String("reason", "reference founder has no coordinates"))
		return []Ranked{}
	}

	result := make([]Ranked, 0, candidates.Len())
	for _, c := range candidates.Items {
		if c.ID == reference.ID || !c.HasCoordinates() {
			continue
		}

		d, err := geo.DistanceKm(*reference.Latitude, *reference.Longitude, *c.Latitude, *c.Longitude)
		if err != nil {
			e.logger.Warn("skipping candidate with invalid coordinates",
				zap.String("founder_id", c.ID),
				zap.Error(err),
			)
			continue
		}

		if d > e.radiusKm {
			continue
		}

		distance := d
		result = append(result, Ranked{Founder: c, DistanceKm: &distance})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if *result[i].DistanceKm != *result[j].DistanceKm {
			return *result[i].DistanceKm < *result[j].DistanceKm
		}
		return result[i].Founder.ID < result[j].Founder.ID
	})

	e.logger.Debug("nearby ranking",
		zap.Int("candidates", candidates.Len()),
		zap.Int("within_radius", len(result)),
		zap.Float64("radius_km", e.radiusKm),
	)

	return result
}

// recommended scores every non-self candidate, best first, capped at the
// configured maximum.
func (e *Engine) recommended(reference *founder.Founder, candidates *founder.Founders) []Ranked {
	result := make([]Ranked, 0, candidates.Len())
	for _, c := range candidates.Items {
		if c.ID == reference.ID {
			continue
		}
		score := match.Score(reference, c)
		result = append(result, Ranked{Founder: c, Score: &score})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if *result[i].Score != *result[j].Score {
			return *result[i].Score > *result[j].Score
		}
		return result[i].Founder.ID < result[j].Founder.ID
	})

	if len(result) > e.maxRecommended {
		result = result[:e.maxRecommended]
	}

	e.logger.Debug("recommended ranking",
		zap.Int("candidates", candidates.Len()),
		zap.Int("returned", len(result)),
	)

	return result
}
