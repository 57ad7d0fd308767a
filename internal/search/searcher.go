package search

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/pawlens/pawlens/internal/model"
)

// Searcher fans product queries out across prioritized sources and collects
// every validated candidate URL.
type Searcher struct {
	client      SearchClient
	log         *zap.Logger
	maxWorkers  int
	resultCount int
}

// NewSearcher creates a searcher with the given fan-out bound.
func NewSearcher(client SearchClient, maxWorkers, resultCount int, log *zap.Logger) *Searcher {
	if maxWorkers <= 0 {
		maxWorkers = 6
	}
	if resultCount <= 0 {
		resultCount = 10
	}
	return &Searcher{client: client, log: log, maxWorkers: maxWorkers, resultCount: resultCount}
}

// FindCandidates searches every source concurrently and returns all
// validated result URLs across sources, manufacturer hits first. Individual
// source failures are logged and swallowed; ErrNoResults is returned only
// when every source comes back empty. ErrInvalidCredentials aborts early:
// every subsequent call would fail the same way.
func (s *Searcher) FindCandidates(ctx context.Context, query, brand string) ([]model.SearchResult, error) {
	variations := QueryVariations(query, brand)
	if len(variations) == 0 {
		return nil, model.ErrNoResults
	}
	keywords := ProductKeywords(query)
	sources := s.SourcesFor(ctx, brand)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type sourceHits struct {
		order int
		hits  []model.SearchResult
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		collected []sourceHits
		fatalErr  error
	)
	semaphore := make(chan struct{}, s.maxWorkers)

	for i, source := range sources {
		wg.Add(1)
		go func(order int, src Source) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			hits, err := s.searchSource(ctx, src, variations, brand, keywords)
			if err != nil {
				if errors.Is(err, model.ErrInvalidCredentials) {
					mu.Lock()
					fatalErr = err
					mu.Unlock()
					cancel()
					return
				}
				s.log.Warn("source search failed", zap.String("source", src.Name), zap.Error(err))
				return
			}
			if len(hits) == 0 {
				return
			}
			mu.Lock()
			collected = append(collected, sourceHits{order: order, hits: hits})
			mu.Unlock()
		}(i, source)
	}

	wg.Wait()

	if fatalErr != nil {
		return nil, fatalErr
	}

	// Preserve source priority: manufacturer/discovered sources were queued
	// first and their hits should be scraped first.
	var results []model.SearchResult
	seen := map[string]bool{}
	for order := 0; order < len(sources); order++ {
		for _, sh := range collected {
			if sh.order != order {
				continue
			}
			for _, hit := range sh.hits {
				if !seen[hit.Link] {
					seen[hit.Link] = true
					results = append(results, hit)
				}
			}
		}
	}

	if len(results) == 0 {
		return nil, model.ErrNoResults
	}
	return results, nil
}

// searchSource tries a source's query variations most-specific first until
// one yields validated hits. A broad early variation returning zero raw
// results short-circuits the rest: narrower variations cannot do better.
func (s *Searcher) searchSource(ctx context.Context, src Source, variations []string, brand string, keywords []string) ([]model.SearchResult, error) {
	for i, variation := range variations {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		raw, err := s.client.Search(ctx, "site:"+src.Domain+" "+variation, s.resultCount)
		if err != nil {
			if errors.Is(err, model.ErrInvalidCredentials) {
				return nil, err
			}
			s.log.Debug("variation failed",
				zap.String("source", src.Name), zap.String("query", variation), zap.Error(err))
			continue
		}

		if len(raw) == 0 {
			if i >= 1 {
				// A broadened query found nothing at all on this site.
				return nil, nil
			}
			continue
		}

		var valid []model.SearchResult
		for _, r := range raw {
			if ValidResult(r, brand, keywords) {
				r.Source = src.Name
				valid = append(valid, r)
			}
		}
		if len(valid) > 0 {
			return valid, nil
		}
	}
	return nil, nil
}
