// Package cache implements the TTL+LRU+memory-bounded junction/miter cache,
// grounded on spatial_optimizer.go's QueryCache: a ristretto-backed store
// wrapped with the domain's own key scheme and eviction-score bookkeeping,
// since ristretto's admission policy (TinyLFU) does not expose the
// recency/frequency/age composite score this layer uses to choose which
// live entries Sweep evicts.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"

	"github.com/wallcore/geom/internal/errs"
)

const component = "cache"

// Stats are the hit/miss/eviction/entry counters the store reports, disableable via
// enable_statistics=false.
type Stats struct {
	Hits           int64
	Misses         int64
	Evictions      int64
	EntriesTracked int64
}

// HitRate returns Hits/(Hits+Misses), or 0 with no traffic.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

type entry struct {
	value        interface{}
	expiresAt    time.Time
	lastAccess   time.Time
	createdAt    time.Time
	accessCount  int64
}

// Store is a single keyed cache (intersection results or miter calculations
// per entry), backed by ristretto for the hot-path Get/Set path and a
// pure-Go map for the metadata the eviction-score formula needs.
type Store struct {
	mu                sync.Mutex
	rc                *ristretto.Cache
	meta              map[string]*entry
	ttl               time.Duration
	maxCost           int64
	enableStatistics  bool
	stats             Stats
	maxEntries        int
	sweepTicker       *time.Ticker
	sweepDone         chan struct{}
}

// Options configures a Store.
type Options struct {
	TTL              time.Duration
	MaxCostBytes     int64
	EnableStatistics bool

	// MaxEntries bounds the tracked-entry count the periodic sweeper enforces
	// via the eviction-score tiebreaker; 0 disables the bound (TTL expiry only).
	MaxEntries int

	// CleanupInterval is how often the background sweeper runs. Defaults to
	// 10 minutes; a negative value disables the sweeper goroutine entirely.
	CleanupInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.TTL <= 0 {
		o.TTL = 5 * time.Minute
	}
	if o.MaxCostBytes <= 0 {
		o.MaxCostBytes = 64 << 20
	}
	if o.CleanupInterval == 0 {
		o.CleanupInterval = 10 * time.Minute
	}
	return o
}

// NewStore constructs a Store ready for concurrent use and starts its
// background sweeper goroutine (stopped by Close) unless
// Options.CleanupInterval is negative.
func NewStore(opts Options) (*Store, error) {
	opts = opts.withDefaults()
	rc, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e6,
		MaxCost:     opts.MaxCostBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, errs.Wrap(component, errs.NumericalFailure, err, "failed to construct ristretto cache")
	}
	s := &Store{
		rc:               rc,
		meta:             make(map[string]*entry),
		ttl:              opts.TTL,
		maxCost:          opts.MaxCostBytes,
		enableStatistics: opts.EnableStatistics,
		maxEntries:       opts.MaxEntries,
	}
	if opts.CleanupInterval > 0 {
		s.sweepTicker = time.NewTicker(opts.CleanupInterval)
		s.sweepDone = make(chan struct{})
		go s.runSweeper()
	}
	return s, nil
}

// runSweeper drives Sweep on a dedicated timer goroutine until Close stops it.
func (s *Store) runSweeper() {
	for {
		select {
		case <-s.sweepTicker.C:
			s.Sweep(s.maxEntries)
		case <-s.sweepDone:
			return
		}
	}
}

// IntersectionKey builds the deterministic key for an intersection result:
// sorted wall-id list, junction kind, the intersection point quantized to 6
// decimals, and the tolerance's base-10 exponent.
func IntersectionKey(wallIDs []string, kind string, x, y, tolerance float64) string {
	ids := append([]string(nil), wallIDs...)
	sort.Strings(ids)
	raw := fmt.Sprintf("%s|%s|%.6f,%.6f|%d", strings.Join(ids, ","), kind, x, y, exponent(tolerance))
	sum := md5.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// MiterKey builds the deterministic key for a miter calculation.
func MiterKey(wallIDs []string, apexX, apexY float64, tolerance float64) string {
	return IntersectionKey(wallIDs, "miter", apexX, apexY, tolerance)
}

func exponent(tolerance float64) int {
	if tolerance <= 0 {
		return 0
	}
	e := 0
	v := tolerance
	for v < 1 {
		v *= 10
		e--
	}
	for v >= 10 {
		v /= 10
		e++
	}
	return e
}

// Get returns the cached value for key, reporting a hit/miss in Stats and
// treating an expired entry as a miss.
func (s *Store) Get(key string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta, ok := s.meta[key]
	if !ok || time.Now().After(meta.expiresAt) {
		if ok {
			delete(s.meta, key)
			s.rc.Del(key)
		}
		if s.enableStatistics {
			s.stats.Misses++
		}
		return nil, false
	}

	meta.lastAccess = time.Now()
	meta.accessCount++
	if s.enableStatistics {
		s.stats.Hits++
	}
	return meta.value, true
}

// Set stores value under key with the store's configured TTL and a cost
// estimate (byte count is the caller's responsibility; 1 is a reasonable
// default for fixed-size geometry records).
func (s *Store) Set(key string, value interface{}, cost int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.meta[key] = &entry{value: value, expiresAt: now.Add(s.ttl), lastAccess: now, createdAt: now}
	s.rc.SetWithTTL(key, value, cost, s.ttl)
	s.rc.Wait()
}

// Invalidate removes key regardless of expiry, used when an upstream wall
// edit invalidates a previously-cached junction/miter record.
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.meta, key)
	s.rc.Del(key)
}

// Sweep evicts every expired entry, applying the combined LRU+frequency
// eviction score as a tiebreaker when the store exceeds its
// tracked-entry budget even among still-live entries:
//
//	score = seconds_since_last_access − 100*accesses_per_hour + age_ms/10000
//
// Higher score means more evictable.
func (s *Store) Sweep(maxEntries int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	evicted := 0
	for k, e := range s.meta {
		if now.After(e.expiresAt) {
			delete(s.meta, k)
			s.rc.Del(k)
			evicted++
		}
	}

	if maxEntries > 0 && len(s.meta) > maxEntries {
		type scored struct {
			key   string
			score float64
		}
		var ranked []scored
		for k, e := range s.meta {
			ranked = append(ranked, scored{k, evictionScore(e, now)})
		}
		sort.Slice(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
		toEvict := len(s.meta) - maxEntries
		for i := 0; i < toEvict && i < len(ranked); i++ {
			delete(s.meta, ranked[i].key)
			s.rc.Del(ranked[i].key)
			evicted++
		}
	}

	if s.enableStatistics {
		s.stats.Evictions += int64(evicted)
		s.stats.EntriesTracked = int64(len(s.meta))
	}
	return evicted
}

func evictionScore(e *entry, now time.Time) float64 {
	secondsSinceAccess := now.Sub(e.lastAccess).Seconds()
	hoursAlive := now.Sub(e.createdAt).Hours()
	accessesPerHour := 0.0
	if hoursAlive > 0 {
		accessesPerHour = float64(e.accessCount) / hoursAlive
	}
	ageMs := float64(now.Sub(e.createdAt).Milliseconds())
	return secondsSinceAccess - 100*accessesPerHour + ageMs/10000
}

// Statistics returns a snapshot of the store's hit/miss counters. Returns
// the zero value when enable_statistics is false.
func (s *Store) Statistics() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// String renders a human-readable summary of entry count and hit rate.
func (s *Store) String() string {
	s.mu.Lock()
	n := len(s.meta)
	s.mu.Unlock()
	st := s.Statistics()
	return "cache entries=" + strconv.Itoa(n) + " hit_rate=" + strconv.FormatFloat(st.HitRate(), 'f', 3, 64)
}

// Close stops the background sweeper, if running, and releases the
// underlying ristretto resources.
func (s *Store) Close() {
	if s.sweepTicker != nil {
		s.sweepTicker.Stop()
		close(s.sweepDone)
	}
	s.rc.Close()
}
