// Package services implements the action layer: every operation the
// presentation layer (or the webhook receiver) invokes against the
// persistence layer lives here. Multi-entity writes run inside a single
// database transaction so they appear atomic to callers; cache
// invalidation happens after commit and is fire-and-forget.
package services

import (
	"gorm.io/gorm"

	"github.com/avelinadev/devflow/backend/internal/cache"
	"github.com/avelinadev/devflow/backend/internal/search"
)

type Service struct {
	db    *gorm.DB
	cache cache.Store
	index *search.Index
}

// New creates the action service. index may be nil when search is not
// configured; cache may be cache.Noop{}.
func New(db *gorm.DB, store cache.Store, index *search.Index) *Service {
	if store == nil {
		store = cache.Noop{}
	}
	return &Service{db: db, cache: store, index: index}
}

// revalidate drops cached pages by prefix. Alongside the caller-supplied
// path, operations pass the canonical API paths they made stale.
func (s *Service) revalidate(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		s.cache.Revalidate(p)
	}
}

// PageOpts is the shared pagination/search/filter parameter record.
type PageOpts struct {
	Page     int
	PageSize int
	Search   string
	Filter   string
}

func (o PageOpts) normalize() PageOpts {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PageSize < 1 {
		o.PageSize = 20
	}
	return o
}

func (o PageOpts) offset() int {
	return (o.Page - 1) * o.PageSize
}

// isNext reports whether another page exists beyond the one returned.
func (o PageOpts) isNext(total int64, returned int) bool {
	return total > int64(o.offset()+returned)
}
