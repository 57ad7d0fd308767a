package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/pawlens/pawlens/internal/model"
)

// fakeSearchClient serves canned results keyed by the site: scope of the
// query, counting calls.
type fakeSearchClient struct {
	mu      sync.Mutex
	results map[string][]model.SearchResult // keyed by domain
	err     error
	calls   int
}

func (f *fakeSearchClient) Search(ctx context.Context, query string, count int) ([]model.SearchResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	for domain, results := range f.results {
		if strings.HasPrefix(query, "site:"+domain) {
			return results, nil
		}
	}
	return nil, nil
}

func TestSearcher_FindCandidates_CollectsAcrossSources(t *testing.T) {
	client := &fakeSearchClient{results: map[string][]model.SearchResult{
		"chewy.com": {
			{Title: "Acme Chicken Dinner Dog Food", Link: "https://chewy.com/acme-chicken-dinner"},
		},
		"petco.com": {
			{Title: "Acme Chicken Dinner", Link: "https://petco.com/acme-chicken-dinner"},
		},
	}}
	s := NewSearcher(client, 4, 10, zap.NewNop())

	results, err := s.FindCandidates(context.Background(), "Chicken Dinner", "Acme")
	if err != nil {
		t.Fatalf("FindCandidates failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 candidates, got %d: %v", len(results), results)
	}
}

func TestSearcher_FindCandidates_ManufacturerFirst(t *testing.T) {
	client := &fakeSearchClient{results: map[string][]model.SearchResult{
		"chewy.com": {
			{Title: "Purina Pro Plan Savor", Link: "https://chewy.com/pro-plan-savor"},
		},
		"purina.com": {
			{Title: "Pro Plan Savor Adult", Link: "https://purina.com/pro-plan/savor"},
		},
	}}
	s := NewSearcher(client, 4, 10, zap.NewNop())

	results, err := s.FindCandidates(context.Background(), "Pro Plan Savor", "Purina")
	if err != nil {
		t.Fatalf("FindCandidates failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(results))
	}
	// The manufacturer source is queued first and must lead the results.
	if !strings.Contains(results[0].Link, "purina.com") {
		t.Errorf("Expected manufacturer hit first, got %q", results[0].Link)
	}
}

func TestSearcher_FindCandidates_BarcodeQuery(t *testing.T) {
	// Retailer product pages carry name slugs, not the GTIN that was
	// searched; hits must not be rejected for missing the digits.
	client := &fakeSearchClient{results: map[string][]model.SearchResult{
		"chewy.com": {
			{Title: "Purina Beneful Originals Dry Dog Food", Link: "https://www.chewy.com/purina-beneful-originals-real-beef/dp/35793"},
		},
	}}
	s := NewSearcher(client, 4, 10, zap.NewNop())

	results, err := s.FindCandidates(context.Background(), "041260421024", "")
	if err != nil {
		t.Fatalf("FindCandidates failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 candidate for a barcode query, got %d", len(results))
	}
	if !strings.Contains(results[0].Link, "beneful") {
		t.Errorf("Unexpected hit: %q", results[0].Link)
	}
}

func TestSearcher_FindCandidates_NoResults(t *testing.T) {
	s := NewSearcher(&fakeSearchClient{}, 4, 10, zap.NewNop())

	_, err := s.FindCandidates(context.Background(), "Nonexistent Product", "")
	if !errors.Is(err, model.ErrNoResults) {
		t.Errorf("Expected ErrNoResults, got %v", err)
	}
}

func TestSearcher_FindCandidates_InvalidCredentialsAbort(t *testing.T) {
	client := &fakeSearchClient{err: model.ErrInvalidCredentials}
	s := NewSearcher(client, 4, 10, zap.NewNop())

	_, err := s.FindCandidates(context.Background(), "Chicken Dinner", "Acme")
	if !errors.Is(err, model.ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSearcher_FindCandidates_FiltersInvalidHits(t *testing.T) {
	client := &fakeSearchClient{results: map[string][]model.SearchResult{
		"chewy.com": {
			{Title: "Acme Chicken Dinner", Link: "https://chewy.com/acme-chicken-dinner"},
			{Title: "Unrelated Gadget", Link: "https://chewy.com/gadget"},
		},
	}}
	s := NewSearcher(client, 4, 10, zap.NewNop())

	results, err := s.FindCandidates(context.Background(), "Chicken Dinner", "Acme")
	if err != nil {
		t.Fatalf("FindCandidates failed: %v", err)
	}
	for _, r := range results {
		if strings.Contains(r.Link, "gadget") {
			t.Errorf("Expected off-topic hit filtered out, got %q", r.Link)
		}
	}
}

func TestSearcher_SourcesFor_KnownBrand(t *testing.T) {
	s := NewSearcher(&fakeSearchClient{}, 4, 10, zap.NewNop())

	sources := s.SourcesFor(context.Background(), "Purina Pro Plan")
	if len(sources) != len(retailerSources)+1 {
		t.Fatalf("Expected manufacturer + retailers, got %d sources", len(sources))
	}
	if sources[0].Domain != "purina.com" || sources[0].Kind != "manufacturer" {
		t.Errorf("Expected purina.com manufacturer first, got %+v", sources[0])
	}
}

func TestSearcher_SourcesFor_UnknownBrandDiscovery(t *testing.T) {
	client := &fakeSearchClient{results: map[string][]model.SearchResult{}}
	s := NewSearcher(client, 4, 10, zap.NewNop())

	// Discovery search returns a retailer first, then the brand site; the
	// retailer must be skipped.
	client.results = map[string][]model.SearchResult{}
	discovered := []model.SearchResult{
		{Title: "Zenith at Chewy", Link: "https://www.chewy.com/zenith"},
		{Title: "Zenith Pet Food", Link: "https://www.zenithpet.com/products"},
	}
	clientWithDiscovery := &discoveryClient{discovery: discovered}
	s = NewSearcher(clientWithDiscovery, 4, 10, zap.NewNop())

	sources := s.SourcesFor(context.Background(), "Zenith")
	if sources[0].Domain != "zenithpet.com" || sources[0].Kind != "discovered" {
		t.Errorf("Expected discovered zenithpet.com first, got %+v", sources[0])
	}
}

func TestSearcher_SourcesFor_NoBrand(t *testing.T) {
	s := NewSearcher(&fakeSearchClient{}, 4, 10, zap.NewNop())

	sources := s.SourcesFor(context.Background(), "")
	if len(sources) != len(retailerSources) {
		t.Errorf("Expected retailers only, got %d sources", len(sources))
	}
}

// discoveryClient answers only the non-site-scoped discovery query.
type discoveryClient struct {
	discovery []model.SearchResult
}

func (d *discoveryClient) Search(ctx context.Context, query string, count int) ([]model.SearchResult, error) {
	if !strings.HasPrefix(query, "site:") {
		return d.discovery, nil
	}
	return nil, nil
}
