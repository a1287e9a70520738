package viewmodel

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/GrayZone-Monitor/internal/domain/snapshot"
	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/GrayZone-Monitor/pkg/errors"
)

const refreshKey = "refresh"

// ─────────────────────────────────────────────────────────────────────────────
// Refresh
// ─────────────────────────────────────────────────────────────────────────────

// Refresh fetches, decodes and composes the latest snapshot and commits it as
// the current view.  Concurrent callers share one in-flight refresh.  The
// shared work is detached from the caller's cancellation and bounded by the
// fetch timeout; a caller whose ctx ends first gets the current state and a
// timeout error while the refresh carries on.
//
// On failure the previous view is kept and the returned error carries
// ErrCodeRefreshFailed wrapping the source or decode error.
func (c *Composer) Refresh(ctx context.Context) (RefreshState, error) {
	ch := c.group.DoChan(refreshKey, func() (interface{}, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.opts.FetchTimeout)
		defer cancel()
		return c.refresh(rctx)
	})

	select {
	case res := <-ch:
		state, _ := res.Val.(RefreshState)
		return state, res.Err
	case <-ctx.Done():
		return c.State(), errors.Wrap(ctx.Err(), errors.ErrCodeTimeout, "refresh wait abandoned")
	}
}

func (c *Composer) refresh(ctx context.Context) (RefreshState, error) {
	id := c.newID()
	start := c.now()
	log := c.logger.With(logging.String("refresh_id", id))

	if c.source == nil {
		return c.fail(id, start, errors.New(errors.ErrCodeSourceNotConfigured, "no snapshot source configured"))
	}

	raw, err := c.source.Fetch(ctx)
	if err != nil {
		return c.fail(id, start, err)
	}
	s, err := snapshot.Decode(raw)
	if err != nil {
		return c.fail(id, start, err)
	}

	vm := c.Compose(s)
	vm.RefreshID = id
	finished := c.now()

	c.mu.Lock()
	changed := c.view == nil || c.view.Hash != vm.Hash
	c.view = &vm
	c.state.Status = vm.Status
	c.state.LastError = ""
	c.state.ErrorCode = ""
	c.state.LastAttempt = &finished
	c.state.LastSuccess = &finished
	c.state.RefreshID = id
	c.state.Loaded = true
	c.state.FromCache = false
	c.state.Refreshes++
	state := c.state
	c.mu.Unlock()

	c.record(vm, finished.Sub(start), s.Size)
	log.Info("view composed",
		logging.String("status", string(vm.Status)),
		logging.String("updated_at", vm.UpdatedAt),
		logging.String("hash", vm.Hash),
		logging.Int("vessels", vm.Stats.Total),
		logging.Int("in_zone", vm.Stats.InZone),
		logging.Int("dark_overall", vm.Dark.Overall),
		logging.Int("skipped", vm.SkippedRecords),
		logging.Bool("changed", changed),
		logging.Duration("took", finished.Sub(start)))

	c.sideEffects(ctx, vm, changed)
	return state, nil
}

func (c *Composer) fail(id string, start time.Time, cause error) (RefreshState, error) {
	finished := c.now()

	c.mu.Lock()
	c.state.Status = StatusLoadFailed
	c.state.LastError = cause.Error()
	c.state.ErrorCode = errors.GetCode(cause).String()
	c.state.LastAttempt = &finished
	c.state.RefreshID = id
	c.state.Refreshes++
	c.state.Failures++
	state := c.state
	c.mu.Unlock()

	c.recorder.RecordRefresh(false, finished.Sub(start), 0)
	c.logger.Warn("refresh failed, keeping previous view",
		logging.String("refresh_id", id),
		logging.String("code", state.ErrorCode),
		logging.Bool("loaded", state.Loaded),
		logging.Err(cause))

	return state, errors.Wrap(cause, errors.ErrCodeRefreshFailed, "refresh failed")
}

func (c *Composer) record(vm ViewModel, took time.Duration, size int) {
	c.recorder.RecordRefresh(true, took, size)
	c.recorder.RecordSkipped("decode", vm.SkippedRecords-vm.Stats.Skipped)
	c.recorder.RecordSkipped("ingest", vm.Stats.Skipped)
	c.recorder.RecordVessels(vm.Stats.Total, vm.Stats.Suspicious, vm.ZoneCounts)
	c.recorder.RecordDarkOverall(vm.Dark.Overall)
	c.recorder.RecordSuspiciousFlagged(vm.Suspicious.Summary.SuspiciousCount)
	c.recorder.RecordIdentityEvents(vm.Identity.Count24h, vm.Identity.Count7d)
}

// ── side effects ──

// sideEffects publishes the view.composed event and, for a snapshot whose
// hash differs from the previous one, its dark-vessel alerts and the cache
// entry.  Failures are logged and never fail the refresh.
func (c *Composer) sideEffects(ctx context.Context, vm ViewModel, changed bool) {
	if c.publisher == nil && c.cache == nil {
		return
	}
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.opts.SideEffectTimeout)
	defer cancel()

	var g errgroup.Group
	if c.publisher != nil {
		g.Go(func() error {
			c.publish(sctx, kafka.TopicViewComposed, kafka.EventViewComposed, vm.Hash, ViewComposedEvent{
				RefreshID: vm.RefreshID,
				Status:    vm.Status,
				UpdatedAt: vm.UpdatedAt,
				Hash:      vm.Hash,
				Stats:     vm.Stats,
			})
			return nil
		})
		if changed {
			for _, a := range vm.Dark.Alerts {
				a := a
				g.Go(func() error {
					c.publish(sctx, kafka.TopicAlerts, kafka.EventDarkAlert, vm.Hash, DarkAlertEvent{
						RefreshID: vm.RefreshID,
						UpdatedAt: vm.UpdatedAt,
						Alert:     a,
					})
					return nil
				})
			}
		}
	}
	if c.cache != nil && changed {
		g.Go(func() error {
			c.store(sctx, vm)
			return nil
		})
	}
	_ = g.Wait()
}

func (c *Composer) publish(ctx context.Context, topic, eventType, key string, payload interface{}) {
	err := c.publisher.PublishEvent(ctx, topic, eventType, []byte(key), payload)
	c.recorder.RecordPublish(topic, err)
	if err != nil {
		c.logger.Warn("event publish failed",
			logging.String("topic", topic),
			logging.String("event_type", eventType),
			logging.Err(err))
	}
}

func (c *Composer) store(ctx context.Context, vm ViewModel) {
	data, err := json.Marshal(vm)
	if err != nil {
		c.logger.Error("view encode failed", logging.Err(err))
		return
	}
	err = c.cache.StoreView(ctx, vm.Hash, data)
	c.recorder.RecordCacheAccess("store", err)
	if err != nil {
		c.logger.Warn("view cache store failed", logging.String("hash", vm.Hash), logging.Err(err))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Warm start and triggers
// ─────────────────────────────────────────────────────────────────────────────

// LoadCached seeds the current view from the cache when nothing has been
// loaded yet.  It reports whether a view was installed.  The registry is not
// rehydrated; lookups stay empty until the first live refresh.
func (c *Composer) LoadCached(ctx context.Context) (bool, error) {
	if c.cache == nil {
		return false, nil
	}
	data, err := c.cache.LoadLatest(ctx)
	if errors.IsCode(err, errors.ErrCodeCacheMiss) {
		c.recorder.RecordCacheAccess("load", nil)
		return false, nil
	}
	c.recorder.RecordCacheAccess("load", err)
	if err != nil {
		return false, err
	}

	var vm ViewModel
	if err := json.Unmarshal(data, &vm); err != nil {
		return false, errors.Wrap(err, errors.ErrCodeSerialization, "cached view is unreadable")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.view != nil {
		return false, nil
	}
	c.view = &vm
	c.state.Status = vm.Status
	c.state.Loaded = true
	c.state.FromCache = true
	c.state.RefreshID = vm.RefreshID

	c.logger.Info("view restored from cache",
		logging.String("hash", vm.Hash),
		logging.String("updated_at", vm.UpdatedAt))
	return true, nil
}

// RefreshLoop refreshes every interval until ctx is done.  The first refresh
// happens one interval after the call; a start-up refresh is the caller's
// decision.  Failures are logged by Refresh and do not stop the loop.
func (c *Composer) RefreshLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	c.logger.Info("refresh loop started", logging.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("refresh loop stopped")
			return
		case <-ticker.C:
			_, _ = c.Refresh(ctx)
		}
	}
}

// HandleSnapshotPublished is a kafka.MessageHandler that refreshes on every
// snapshot notification.  Refresh failures are already recorded in the
// state, so the message is always acknowledged.
func (c *Composer) HandleSnapshotPublished(ctx context.Context, msg *kafka.Message) error {
	p, ok := kafka.DecodeSnapshotPublished(msg)
	c.logger.Debug("snapshot notification",
		logging.Bool("parsed", ok),
		logging.String("updated_at", p.UpdatedAt),
		logging.String("object", p.Object))
	_, _ = c.Refresh(ctx)
	return nil
}

//Personal.AI order the ending
