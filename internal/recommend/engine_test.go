package recommend

import (
	"fmt"
	"math"
	"testing"

	"go.uber.org/zap"

	"github.com/founderhub/founderhub/internal/founder"
)

// latitudeForKm returns the latitude offset that puts a point the given
// number of kilometers north of the equator.
func latitudeForKm(km float64) float64 {
	return km / (math.Pi * 6371 / 180)
}

func coords(lat, lon float64) (*float64, *float64) {
	return &lat, &lon
}

func TestNearbyKeepsOnlyCandidatesWithinRadius(t *testing.T) {
	reference := &founder.Founder{ID: "ref", Name: "Ref"}
	reference.Latitude, reference.Longitude = coords(0, 0)

	candidates := &founder.Founders{}
	for i, km := range []float64{10, 49, 51, 60} {
		c := &founder.Founder{ID: fmt.Sprintf("c%d", i), Name: fmt.Sprintf("Founder %d", i)}
		c.Latitude, c.Longitude = coords(latitudeForKm(km), 0)
		candidates.Items = append(candidates.Items, c)
	}

	engine := NewEngine(0, 0, zap.NewNop())
	result := engine.Recommend(IntentNearby, reference, candidates)

	if len(result) != 2 {
		t.Fatalf("expected 2 founders within 50km, got %d", len(result))
	}
	if result[0].Founder.ID != "c0" || result[1].Founder.ID != "c1" {
		t.Fatalf("expected ascending distance order c0, c1, got %s, %s", result[0].Founder.ID, result[1].Founder.ID)
	}
	if *result[0].DistanceKm >= *result[1].DistanceKm {
		t.Fatalf("expected ascending distances, got %v then %v", *result[0].DistanceKm, *result[1].DistanceKm)
	}
	if math.Abs(*result[0].DistanceKm-10) > 1e-6 {
		t.Fatalf("expected ~10km for nearest candidate, got %v", *result[0].DistanceKm)
	}
}

func TestNearbyExcludesCandidatesWithoutCoordinates(t *testing.T) {
	reference := &founder.Founder{ID: "ref"}
	reference.Latitude, reference.Longitude = coords(0, 0)

	near := &founder.Founder{ID: "near"}
	near.Latitude, near.Longitude = coords(latitudeForKm(5), 0)

	lonely := &founder.Founder{ID: "no-coords"}
	lat := latitudeForKm(5)
	half := &founder.Founder{ID: "half", Latitude: &lat}

	candidates := &founder.Founders{Items: []*founder.Founder{lonely, half, near}}

	engine := NewEngine(0, 0, zap.NewNop())
	result := engine.Recommend(IntentNearby, reference, candidates)

	if len(result) != 1 {
		t.Fatalf("expected 1 result, got %d", len(result))
	}
	if result[0].Founder.ID != "near" {
		t.Fatalf("expected only the located candidate, got %s", result[0].Founder.ID)
	}
}

func TestNearbyExcludesReferenceFounder(t *testing.T) {
	reference := &founder.Founder{ID: "ref"}
	reference.Latitude, reference.Longitude = coords(0, 0)

	self := &founder.Founder{ID: "ref"}
	self.Latitude, self.Longitude = coords(0, 0)

	candidates := &founder.Founders{Items: []*founder.Founder{self}}

	engine := NewEngine(0, 0, zap.NewNop())
	if result := engine.Recommend(IntentNearby, reference, candidates); len(result) != 0 {
		t.Fatalf("expected the reference founder to be excluded, got %d results", len(result))
	}
}

func TestNearbyWithUnlocatedReference(t *testing.T) {
	reference := &founder.Founder{ID: "ref"}

	near := &founder.Founder{ID: "near"}
	near.Latitude, near.Longitude = coords(0, 0)
	candidates := &founder.Founders{Items: []*founder.Founder{near}}

	engine := NewEngine(0, 0, zap.NewNop())
	if result := engine.Recommend(IntentNearby, reference, candidates); len(result) != 0 {
		t.Fatalf("expected no results for an unlocated reference, got %d", len(result))
	}
}

func TestRecommendedReturnsTopFiveDescending(t *testing.T) {
	reference := &founder.Founder{ID: "ref", Skills: "a, b, c, d, e, f, g"}

	// Seven candidates with strictly increasing overlap against the
	// reference vocabulary.
	vocab := []string{"a", "b", "c", "d", "e", "f", "g"}
	candidates := &founder.Founders{}
	for i := 1; i <= 7; i++ {
		candidates.Items = append(candidates.Items, &founder.Founder{
			ID:     fmt.Sprintf("c%d", i),
			Skills: commaJoin(vocab[:i]),
		})
	}

	engine := NewEngine(0, 0, zap.NewNop())
	result := engine.Recommend(IntentRecommended, reference, candidates)

	if len(result) != 5 {
		t.Fatalf("expected exactly 5 results, got %d", len(result))
	}
	for i := 1; i < len(result); i++ {
		if *result[i-1].Score <= *result[i].Score {
			t.Fatalf("expected strictly descending scores, got %v then %v", *result[i-1].Score, *result[i].Score)
		}
	}
	if result[0].Founder.ID != "c7" {
		t.Fatalf("expected the closest vocabulary match first, got %s", result[0].Founder.ID)
	}
}

func TestRecommendedBreaksTiesByID(t *testing.T) {
	reference := &founder.Founder{ID: "ref", Skills: "go"}

	// Insertion order deliberately reversed relative to the ids.
	candidates := &founder.Founders{Items: []*founder.Founder{
		{ID: "b", Skills: "go"},
		{ID: "a", Skills: "go"},
	}}

	engine := NewEngine(0, 0, zap.NewNop())
	result := engine.Recommend(IntentRecommended, reference, candidates)

	if len(result) != 2 {
		t.Fatalf("expected 2 results, got %d", len(result))
	}
	if result[0].Founder.ID != "a" || result[1].Founder.ID != "b" {
		t.Fatalf("expected id-ascending tie break, got %s then %s", result[0].Founder.ID, result[1].Founder.ID)
	}
}

func TestRecommendEmptyCandidateSetIsNotAnError(t *testing.T) {
	reference := &founder.Founder{ID: "ref", Skills: "go"}
	engine := NewEngine(0, 0, zap.NewNop())

	for _, intent := range []Intent{IntentNearby, IntentRecommended, IntentGeneral} {
		result := engine.Recommend(intent, reference, &founder.Founders{})
		if result == nil {
			t.Fatalf("expected empty slice for %s, got nil", intent)
		}
		if len(result) != 0 {
			t.Fatalf("expected no results for %s, got %d", intent, len(result))
		}
	}
}

func TestDetectIntent(t *testing.T) {
	cases := []struct {
		query    string
		expected Intent
	}{
		{"Who are the founders nearby?", IntentNearby},
		{"show me people near me", IntentNearby},
		{"anyone in my area building hardware?", IntentNearby},
		{"Can you recommend founders for me?", IntentRecommended},
		{"suggest some cofounders", IntentRecommended},
		{"find founders similar to me", IntentRecommended},
		{"How do I raise a seed round?", IntentGeneral},
		{"", IntentGeneral},
	}

	for _, c := range cases {
		if got := DetectIntent(c.query); got != c.expected {
			t.Fatalf("query %q: expected %s, got %s", c.query, c.expected, got)
		}
	}
}

func commaJoin(tokens []string) string {
	out := ""
	for i, tok := range tokens {
		if i > 0 {
			out += ", "
		}
		out += tok
	}
	return out
}
