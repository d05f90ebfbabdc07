// Package lookup caches node names so paths like "-1,1051,1067" can be shown as breadcrumbs.
package lookup

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/backoffice/backoffice-cli/internal/api"
)

// RootID is the virtual root of every tree.
const RootID = -1

// EntityFetcher loads entities by id.
type EntityFetcher interface {
	GetByIDs(ctx context.Context, ids []int, typ api.EntityType) ([]api.Entity, error)
}

type key struct {
	typ api.EntityType
	id  int
}

// Names resolves entity ids to names through an expiring LRU.
type Names struct {
	fetch EntityFetcher
	cache *expirable.LRU[key, string]
}

// NewNames creates a resolver holding at most size names for ttl.
func NewNames(fetch EntityFetcher, size int, ttl time.Duration) *Names {
	return &Names{
		fetch: fetch,
		cache: expirable.NewLRU[key, string](size, nil, ttl),
	}
}

// Resolve returns a name for every id. Ids missing from the cache are fetched in one call.
func (n *Names) Resolve(ctx context.Context, typ api.EntityType, ids []int) (map[int]string, error) {
	out := make(map[int]string, len(ids))
	var missing []int
	for _, id := range ids {
		if id == RootID {
			continue
		}
		if name, ok := n.cache.Get(key{typ, id}); ok {
			out[id] = name
			continue
		}
		if _, dup := out[id]; !dup && !contains(missing, id) {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return out, nil
	}

	entities, err := n.fetch.GetByIDs(ctx, missing, typ)
	if err != nil {
		return out, fmt.Errorf("resolve names: %w", err)
	}
	for _, e := range entities {
		n.cache.Add(key{typ, e.ID}, e.Name)
		out[e.ID] = e.Name
	}
	return out, nil
}

// Breadcrumb renders a comma-separated node path as "A / B / C".
// Ids that cannot be resolved are shown as numbers.
func (n *Names) Breadcrumb(ctx context.Context, typ api.EntityType, path string) (string, error) {
	ids, err := ParsePath(path)
	if err != nil {
		return "", err
	}
	names, err := n.Resolve(ctx, typ, ids)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == RootID {
			continue
		}
		if name, ok := names[id]; ok && name != "" {
			parts = append(parts, name)
		} else {
			parts = append(parts, strconv.Itoa(id))
		}
	}
	return strings.Join(parts, " / "), nil
}

// Forget drops a cached name, for example after a rename.
func (n *Names) Forget(typ api.EntityType, id int) {
	n.cache.Remove(key{typ, id})
}

// ParsePath splits a node path such as "-1,1051,1067".
func ParsePath(path string) ([]int, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	fields := strings.Split(path, ",")
	ids := make([]int, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("invalid node path %q", path)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func contains(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
