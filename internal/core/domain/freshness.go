package domain

import "time"

// Freshness is the state of a cache file relative to its sources.
type Freshness string

const (
	// FreshnessFresh means the cache is at least as new as every source.
	FreshnessFresh Freshness = "fresh"
	// FreshnessStale means at least one source is newer than the cache.
	FreshnessStale Freshness = "stale"
	// FreshnessMissing means the cache file does not exist.
	FreshnessMissing Freshness = "missing"
)

// Stamp is a file path with its modification time.
type Stamp struct {
	Path    string
	ModTime time.Time
}

// Decision is the result of comparing a cache stamp with its source stamps.
type Decision struct {
	State  Freshness
	Cache  Stamp
	Newest Stamp
}

// Fresh reports whether the cache can be served.
func (d Decision) Fresh() bool {
	return d.State == FreshnessFresh
}

// Evaluate decides whether cache is still valid for sources.
// A nil cache means the cache file does not exist. The cache is fresh when its
// modification time is not before the newest source; equal times count as fresh.
func Evaluate(cache *Stamp, sources []Stamp) Decision {
	var d Decision
	for _, s := range sources {
		if d.Newest.Path == "" || s.ModTime.After(d.Newest.ModTime) {
			d.Newest = s
		}
	}

	if cache == nil {
		d.State = FreshnessMissing
		return d
	}

	d.Cache = *cache
	if d.Newest.ModTime.After(cache.ModTime) {
		d.State = FreshnessStale
	} else {
		d.State = FreshnessFresh
	}
	return d
}
