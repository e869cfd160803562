// Package directory provides full-text search over founder profiles for the
// browse/search surface of the platform.
package directory

import (
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/mitchellh/mapstructure"

	"github.com/founderhub/founderhub/internal/founder"
)

// Index is a bleve index over founder name, skills, bio and city.
type Index struct {
	index bleve.Index
}

type document struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Skills string `json:"skills"`
	Bio    string `json:"bio"`
	City   string `json:"city"`
}

// Hit is one search result. The textual fields are decoded from the stored
// document so callers can render results without a store round trip.
type Hit struct {
	ID     string  `mapstructure:"id"`
	Score  float64 `mapstructure:"-"`
	Name   string  `mapstructure:"name"`
	Skills string  `mapstructure:"skills"`
	City   string  `mapstructure:"city"`
}

// New creates or opens a bleve index at path. An empty path builds a
// memory-only index, which tests use.
func New(path string) (*Index, error) {
	im := indexMapping()

	if path == "" {
		index, err := bleve.NewMemOnly(im)
		if err != nil {
			return nil, fmt.Errorf("create in-memory index: %w", err)
		}
		return &Index{index: index}, nil
	}

	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("open founder index: %w", openErr)
		}
		return &Index{index: index}, nil
	}

	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("create founder index: %w", err)
	}
	return &Index{index: index}, nil
}

func indexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer: lowercase + tokenize, no stemming, so skill tokens
	// like "golang" match exactly what profiles contain.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("name", textFieldMapping)
	docMapping.AddFieldMappingsAt("skills", textFieldMapping)
	docMapping.AddFieldMappingsAt("bio", textFieldMapping)
	docMapping.AddFieldMappingsAt("city", textFieldMapping)

	keywordFieldMapping := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt("id", keywordFieldMapping)

	im.AddDocumentMapping("founder", docMapping)
	im.DefaultType = "founder"
	im.DefaultMapping = docMapping

	return im
}

// Add indexes a founder profile, replacing any previous document with the
// same id.
func (i *Index) Add(f *founder.Founder) error {
	if f == nil || f.ID == "" {
		return fmt.Errorf("founder with an id is required")
	}
	return i.index.Index(f.ID, document{
		ID:     f.ID,
		Name:   f.Name,
		Skills: f.Skills,
		Bio:    f.Bio,
		City:   f.City,
	})
}

func (i *Index) Delete(id string) error {
	return i.index.Delete(id)
}

// Search runs a match query over all indexed fields and returns up to limit
// hits, best first.
func (i *Index) Search(query string, limit int) ([]*Hit, error) {
	if limit <= 0 {
		limit = 10
	}

	req := bleve.NewSearchRequest(bleve.NewMatchQuery(query))
	req.Size = limit
	req.Fields = []string{"*"}

	results, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("founder search failed: %w", err)
	}

	hits := make([]*Hit, 0, len(results.Hits))
	for _, match := range results.Hits {
		hit := &Hit{ID: match.ID, Score: match.Score}
		// Stored fields come back as a generic map; decode the known ones.
		if err := mapstructure.Decode(match.Fields, hit); err != nil {
			return nil, fmt.Errorf("decode hit fields: %w", err)
		}
		hit.ID = match.ID
		hits = append(hits, hit)
	}
	return hits, nil
}

func (i *Index) Close() error {
	return i.index.Close()
}
