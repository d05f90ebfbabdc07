package api

import (
	"context"
	"fmt"
	"sync"
)

// GetByID retrieves the entity projection of a node.
func (s EntityService) GetByID(ctx context.Context, id int, typ EntityType) (*Entity, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	if err := requireString("type", string(typ)); err != nil {
		return nil, err
	}
	return getResource[*Entity](ctx, s, AliasEntity, "GetById",
		fmt.Sprintf("Failed to retrieve entity data for id %d", id), P("id", id), P("type", typ))
}

// GetByIDs retrieves several entities of one type.
func (s EntityService) GetByIDs(ctx context.Context, ids []int, typ EntityType) ([]Entity, error) {
	if err := requireIDs("ids", ids); err != nil {
		return nil, err
	}
	if err := requireString("type", string(typ)); err != nil {
		return nil, err
	}
	return postResource[[]Entity](ctx, s, AliasEntity, "GetByIds", map[string]any{"ids": ids},
		"Failed to retrieve entity data for ids", P("type", typ))
}

// GetChildren lists the child entities of a node.
func (s EntityService) GetChildren(ctx context.Context, id int, typ EntityType) ([]Entity, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	return getResource[[]Entity](ctx, s, AliasEntity, "GetChildren",
		fmt.Sprintf("Failed to retrieve child data for id %d", id), P("id", id), P("type", typ))
}

// GetAncestors lists the ancestors of a node, root first.
func (s EntityService) GetAncestors(ctx context.Context, id int, typ EntityType) ([]Entity, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	return getResource[[]Entity](ctx, s, AliasEntity, "GetAncestors",
		fmt.Sprintf("Failed to retrieve ancestor data for id %d", id), P("id", id), P("type", typ))
}

// Search runs a search within one tree type. Cancel ctx to abort it.
func (s EntityService) Search(ctx context.Context, query string, typ EntityType, searchFrom string) ([]SearchResult, error) {
	if err := requireString("type", string(typ)); err != nil {
		return nil, err
	}
	params := []Param{P("query", query), P("type", typ)}
	if searchFrom != "" {
		params = append(params, P("searchFrom", searchFrom))
	}
	return getResource[[]SearchResult](ctx, s, AliasEntity, "Search", "Failed to retrieve entity data for query "+query, params...)
}

// SearchAll searches every tree the user has access to. Cancel ctx to abort it.
func (s EntityService) SearchAll(ctx context.Context, query string) ([]TreeSearchResult, error) {
	return getResource[[]TreeSearchResult](ctx, s, AliasEntity, "SearchAll",
		"Failed to retrieve entity data for query "+query, P("query", query))
}

// Searcher runs searches where a newer search cancels the one still in flight.
type Searcher struct {
	svc EntityService

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewSearcher creates a Searcher over svc.
func NewSearcher(svc EntityService) *Searcher {
	return &Searcher{svc: svc}
}

// Search supersedes any in-flight search. A superseded call returns an error
// for which errors.Is(err, context.Canceled) holds.
func (s *Searcher) Search(ctx context.Context, query string, typ EntityType) ([]SearchResult, error) {
	ctx, seq := s.begin(ctx)
	defer s.end(seq)
	return s.svc.Search(ctx, query, typ, "")
}

func (s *Searcher) begin(parent context.Context) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(parent)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	s.cancel = cancel
	return ctx, s.seq
}

func (s *Searcher) end(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq == seq && s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
