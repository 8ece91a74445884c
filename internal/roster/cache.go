package roster

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Loader reads the roster of team for year, typically from the file store.
type Loader func(team string, year int) (*Roster, error)

// Book caches loaded rosters with a TTL.
type Book struct {
	mu       sync.Mutex
	Rosters  map[string]*Roster   // TEAM|year → roster
	CachedAt map[string]time.Time // key → cache time
	TTL      time.Duration
	load     Loader
}

// NewBook creates a roster cache with a default one-hour TTL.
func NewBook(load Loader) *Book {
	return &Book{
		Rosters:  make(map[string]*Roster),
		CachedAt: make(map[string]time.Time),
		TTL:      time.Hour,
		load:     load,
	}
}

// Get returns the roster of team for year, loading it when it is missing or
// expired.
func (b *Book) Get(team string, year int) (*Roster, error) {
	key := cacheKey(team, year)

	b.mu.Lock()
	r, exists := b.Rosters[key]
	cachedTime, hasTime := b.CachedAt[key]
	b.mu.Unlock()

	if exists && hasTime && time.Since(cachedTime) <= b.TTL {
		return r, nil
	}

	r, err := b.load(team, year)
	if err != nil {
		return nil, fmt.Errorf("loading roster %s %d: %w", team, year, err)
	}
	b.Set(team, year, r)
	return r, nil
}

// Season returns a Set with the rosters of every listed team.
func (b *Book) Season(year int, teams []string) (Set, error) {
	set := make(Set, 0, len(teams))
	for _, team := range teams {
		r, err := b.Get(team, year)
		if err != nil {
			return nil, err
		}
		set = append(set, r)
	}
	return set, nil
}

// Set stores a roster in the cache.
func (b *Book) Set(team string, year int, r *Roster) {
	key := cacheKey(team, year)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Rosters[key] = r
	b.CachedAt[key] = time.Now()
}

// cacheKey generates a cache key from team and year
func cacheKey(team string, year int) string {
	return strings.ToUpper(strings.TrimSpace(team)) + "|" + strconv.Itoa(year)
}

// CleanExpired removes expired entries from cache
func (b *Book) CleanExpired() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	removed := 0
	now := time.Now()

	for key, cachedTime := range b.CachedAt {
		if now.Sub(cachedTime) > b.TTL {
			delete(b.Rosters, key)
			delete(b.CachedAt, key)
			removed++
		}
	}

	return removed
}

// Size returns the number of cached entries
func (b *Book) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.Rosters)
}
