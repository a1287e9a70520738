package viewmodel

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/GrayZone-Monitor/internal/domain/darkvessel"
	"github.com/turtacn/GrayZone-Monitor/internal/domain/identity"
	"github.com/turtacn/GrayZone-Monitor/internal/domain/snapshot"
	"github.com/turtacn/GrayZone-Monitor/internal/domain/suspicious"
	"github.com/turtacn/GrayZone-Monitor/internal/domain/vessel"
	"github.com/turtacn/GrayZone-Monitor/internal/domain/zone"
	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/database/redis"
	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/source"
)

// Publisher emits enveloped events.  *kafka.Producer satisfies it.
type Publisher interface {
	PublishEvent(ctx context.Context, topic, eventType string, key []byte, payload interface{}) error
}

// Recorder receives refresh and view metrics.
// *prometheus.GrayZoneMetrics satisfies it.
type Recorder interface {
	RecordRefresh(ok bool, duration time.Duration, snapshotBytes int)
	RecordSkipped(stage string, n int)
	RecordVessels(total, suspicious int, zoneCounts map[string]int)
	RecordDarkOverall(dark int)
	RecordSuspiciousFlagged(n int)
	RecordIdentityEvents(count24h, count7d int)
	RecordCacheAccess(op string, err error)
	RecordPublish(topic string, err error)
}

type nopRecorder struct{}

func (nopRecorder) RecordRefresh(bool, time.Duration, int) {}
func (nopRecorder) RecordSkipped(string, int) {}
func (nopRecorder) RecordVessels(int, int, map[string]int) {}
func (nopRecorder) RecordDarkOverall(int) {}
func (nopRecorder) RecordSuspiciousFlagged(int) {}
func (nopRecorder) RecordIdentityEvents(int, int) {}
func (nopRecorder) RecordCacheAccess(string, error) {}
func (nopRecorder) RecordPublish(string, error) {}

// Options tunes composition and refresh.
type Options struct {
	SuspiciousLimit   int
	Identity          identity.Options
	Dark              darkvessel.Options
	FetchTimeout      time.Duration
	SideEffectTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		SuspiciousLimit:   suspicious.DefaultLimit,
		Identity:          identity.DefaultOptions(),
		Dark:              darkvessel.DefaultOptions(),
		FetchTimeout:      15 * time.Second,
		SideEffectTimeout: 5 * time.Second,
	}
}

// Deps are the collaborators of a Composer.  Only Logger is required; a nil
// Zones index falls back to the built-in drill zones, and a nil Source leaves
// Compose usable while Refresh reports the source as not configured.
type Deps struct {
	Zones     *zone.Index
	Hotspots  *zone.Index
	Source    source.Source
	Publisher Publisher
	Cache     redis.ViewCache
	Recorder  Recorder
	Logger    logging.Logger
}

// Composer owns the vessel registry and the current view.  It is safe for
// concurrent use; refreshes are collapsed through a singleflight group so
// overlapping triggers share one fetch.
type Composer struct {
	zones     *zone.Index
	hotspots  *zone.Index
	registry  *vessel.Registry
	source    source.Source
	publisher Publisher
	cache     redis.ViewCache
	recorder  Recorder
	logger    logging.Logger
	opts      Options

	now   func() time.Time
	newID func() string
	group singleflight.Group

	mu    sync.RWMutex
	view  *ViewModel
	state RefreshState
}

type ComposerOption func(*Composer)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ComposerOption {
	return func(c *Composer) { c.now = now }
}

// WithIDGenerator replaces the uuid refresh-ID generator.
func WithIDGenerator(gen func() string) ComposerOption {
	return func(c *Composer) { c.newID = gen }
}

func NewComposer(deps Deps, opts Options, options ...ComposerOption) *Composer {
	def := DefaultOptions()
	if opts.SuspiciousLimit <= 0 {
		opts.SuspiciousLimit = def.SuspiciousLimit
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = def.FetchTimeout
	}
	if opts.SideEffectTimeout <= 0 {
		opts.SideEffectTimeout = def.SideEffectTimeout
	}
	if opts.Dark.SparklineMaxHeight <= 0 {
		opts.Dark = def.Dark
	}

	zones := deps.Zones
	if zones == nil {
		zones = zone.MustIndex(zone.DefaultDrillZones())
	}
	hotspots := deps.Hotspots
	if hotspots == nil {
		hotspots = zone.MustIndex(zone.DefaultFishingHotspots())
	}
	recorder := deps.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}
	log := deps.Logger
	if log == nil {
		log = logging.NewNopLogger()
	}

	c := &Composer{
		zones:     zones,
		hotspots:  hotspots,
		registry:  vessel.NewRegistry(zones, hotspots),
		source:    deps.Source,
		publisher: deps.Publisher,
		cache:     deps.Cache,
		recorder:  recorder,
		logger:    log.Named("composer"),
		opts:      opts,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
		state:     RefreshState{Status: StatusPending},
	}
	if deps.Source != nil {
		c.state.Source = deps.Source.Describe()
	}
	for _, o := range options {
		o(c)
	}
	return c
}

// Compose derives the view of s.  Apart from ingesting the AIS batch into
// the registry it has no side effects and does not touch the current view.
func (c *Composer) Compose(s *snapshot.Snapshot) ViewModel {
	if s == nil {
		s = &snapshot.Snapshot{}
	}
	var reports []snapshot.AISVessel
	if s.AISSnapshot != nil {
		reports = s.AISSnapshot.Vessels
	}
	ingest := c.registry.Ingest(reports)
	now := c.now()

	return ViewModel{
		Status:         StatusFor(s),
		UpdatedAt:      s.UpdatedAt,
		ComposedAt:     now.UTC(),
		Hash:           s.Hash,
		Stats:          ingest.Stats,
		ZoneCounts:     ingest.ZoneCounts,
		Zones:          zoneViews(c.zones, ingest.ZoneCounts),
		Dark:           darkvessel.Aggregate(s.DarkVessels, s.VesselMonitoring, c.opts.Dark),
		Suspicious:     suspicious.Rank(s.SuspiciousAnalysis, c.opts.SuspiciousLimit, c.zones),
		Identity:       identity.Correlate(s.IdentityEvents, now, c.opts.Identity),
		SkippedRecords: s.SkippedRecords() + ingest.Stats.Skipped,
		Issues:         s.Issues,
	}
}

// View returns a copy of the last good view.
func (c *Composer) View() (ViewModel, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.view == nil {
		return ViewModel{}, false
	}
	return *c.view, true
}

// Presented returns the last good view as the dashboard shows it: when the
// latest refresh failed the status reads load failed and Stale is set, the
// content is unchanged.
func (c *Composer) Presented() (ViewModel, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.view == nil {
		return ViewModel{}, false
	}
	vm := *c.view
	if c.state.Failed() {
		vm.Status = StatusLoadFailed
		vm.Stale = true
	}
	return vm, true
}

// State returns the refresh state.
func (c *Composer) State() RefreshState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Composer) Registry() *vessel.Registry { return c.registry }

func (c *Composer) Zones() *zone.Index { return c.zones }

func (c *Composer) Hotspots() *zone.Index { return c.hotspots }

//Personal.AI order the ending
