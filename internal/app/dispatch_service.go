package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/example/dispatch/internal/clock"
	coremission "github.com/example/dispatch/internal/core/mission"
	"github.com/example/dispatch/internal/core/region"
	"github.com/example/dispatch/internal/core/reward"
	"github.com/example/dispatch/internal/ctxutil"
	"github.com/example/dispatch/internal/ports/primary"
	"github.com/example/dispatch/internal/ports/secondary"
)

// DispatchOptions holds the tunables of the dispatch engine.
type DispatchOptions struct {
	MaxSlots         int
	HistoryLimit     int
	UserID           string
	StrictUnits      bool // reject a start if any unit id is unknown
	ValidateDuration bool // require the duration to be one of the region's options
	GreatSuccess     bool // enable great-success rolls on claim
}

// DispatchServiceImpl implements the DispatchService interface.
// The active set is cached in memory and re-read from the repository before
// every operation; mutations run under the repository's store lock.
type DispatchServiceImpl struct {
	catalog   *region.Catalog
	units     secondary.UnitRegistry
	inventory secondary.InventoryService
	repo      secondary.MissionRepository
	clock     clock.Clock
	rng       reward.Source
	logger    *slog.Logger
	opts      DispatchOptions
	newToken  func() string

	mu      sync.Mutex
	active  []*secondary.MissionRecord
	history []*secondary.MissionRecord
}

// NewDispatchService creates a new DispatchService with injected dependencies.
// A nil rng uses the process-wide generator; a nil logger discards output.
func NewDispatchService(
	catalog *region.Catalog,
	units secondary.UnitRegistry,
	inventory secondary.InventoryService,
	repo secondary.MissionRepository,
	clk clock.Clock,
	rng reward.Source,
	logger *slog.Logger,
	opts DispatchOptions,
) *DispatchServiceImpl {
	if rng == nil {
		rng = globalSource{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DispatchServiceImpl{
		catalog:   catalog,
		units:     units,
		inventory: inventory,
		repo:      repo,
		clock:     clk,
		rng:       rng,
		logger:    logger,
		opts:      opts,
		newToken:  func() string { return uuid.New().String()[:8] },
	}
}

// globalSource adapts the math/rand/v2 top-level functions, which are safe for concurrent use.
type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }
func (globalSource) IntN(n int) int   { return rand.IntN(n) }

// Restore loads persisted active missions and claimed history.
// Missions are trusted as persisted; completion is re-derived from their absolute end times.
func (s *DispatchServiceImpl) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reload(ctx); err != nil {
		return err
	}
	history, err := s.repo.LoadHistory(ctx, s.opts.HistoryLimit)
	if err != nil {
		return fmt.Errorf("failed to load mission history: %w", err)
	}
	s.history = history

	s.logger.Debug("restored dispatch state", "active", len(s.active), "history", len(s.history))
	return nil
}

// StartMission validates a dispatch request and creates an ongoing mission.
// Every validation runs before any mutation, so a rejected request leaves no trace.
func (s *DispatchServiceImpl) StartMission(ctx context.Context, req primary.StartMissionRequest) (*primary.StartMissionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var resp *primary.StartMissionResponse
	err := s.locked(ctx, func(ctx context.Context) error {
		// 1. Resolve region and duration
		start := s.clock.Now().UnixMilli()
		reg, regionExists := s.catalog.FindRegion(req.RegionID)
		guardCtx := coremission.StartContext{
			RegionID:      req.RegionID,
			RegionExists:  regionExists,
			Duration:      req.Duration,
			DurationValid: !s.opts.ValidateDuration || (regionExists && reg.HasDuration(req.Duration)),
			StartTime:     start,
			RequestedIDs:  req.UnitIDs,
			StrictUnits:   s.opts.StrictUnits,
			ActiveCount:   len(s.active),
			MaxSlots:      s.opts.MaxSlots,
		}

		// 2. Resolve units against the registry and the active set
		var valid []string
		if regionExists {
			for _, id := range req.UnitIDs {
				exists, err := s.units.Exists(ctx, id)
				if err != nil {
					return fmt.Errorf("failed to look up unit %s: %w", id, err)
				}
				if !exists {
					guardCtx.UnknownIDs = append(guardCtx.UnknownIDs, id)
					continue
				}
				valid = append(valid, id)
				if s.ownerOf(id) != "" && !slices.Contains(guardCtx.DispatchedIDs, id) {
					guardCtx.DispatchedIDs = append(guardCtx.DispatchedIDs, id)
				}
			}
		}

		// 3. Guard check
		if result := coremission.CanStartMission(guardCtx); !result.Allowed {
			s.logger.Info("dispatch rejected", "region_id", req.RegionID, "units", req.UnitIDs, "reason", result.Reason)
			return result.Error()
		}

		// 4. Create mission record
		record := &secondary.MissionRecord{
			ID:        s.nextID(start),
			RegionID:  req.RegionID,
			UnitIDs:   valid,
			StartTime: start,
			Duration:  req.Duration,
			EndTime:   coremission.EndTime(start, req.Duration),
			Status:    string(coremission.InitialStatus()),
		}
		s.active = append(s.active, record)
		if err := s.persistActive(ctx); err != nil {
			s.active = s.active[:len(s.active)-1]
			return err
		}

		if len(guardCtx.UnknownIDs) > 0 {
			s.logger.Warn("dropped unknown units from dispatch", "mission_id", record.ID, "units", guardCtx.UnknownIDs)
		}
		resp = &primary.StartMissionResponse{
			MissionID: record.ID,
			Mission:   s.recordToMission(record),
			Dropped:   guardCtx.UnknownIDs,
		}
		return nil
	})
	if err != nil {
		if resp != nil {
			// Saved but never committed.
			s.active = slices.DeleteFunc(s.active, func(m *secondary.MissionRecord) bool { return m.ID == resp.MissionID })
		}
		return nil, err
	}

	s.logger.Info("mission started", "mission_id", resp.MissionID, "region_id", req.RegionID, "units", resp.Mission.UnitIDs, "duration", req.Duration)
	return resp, nil
}

// Tick completes every ongoing mission whose end time has passed.
// Safe at any frequency; a late tick completes missions just the same.
func (s *DispatchServiceImpl) Tick(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var completed []string
	err := s.locked(ctx, func(ctx context.Context) error {
		now := s.clock.Now()
		for _, m := range s.active {
			next := coremission.EffectiveStatus(coremission.Status(m.Status), m.EndTime, now)
			if !coremission.CanTransition(coremission.Status(m.Status), next) {
				continue
			}
			m.Status = string(next)
			completed = append(completed, m.ID)
		}
		if len(completed) == 0 {
			return nil
		}
		return s.persistActive(ctx)
	})
	if err != nil {
		// The next tick derives the same completions again.
		s.logger.Warn("tick failed", "err", err)
		return nil
	}

	if len(completed) > 0 {
		s.logger.Info("missions completed", "missions", completed)
	}
	return completed
}

// ClaimRewards rolls rewards for a completed mission and credits them to the inventory.
// The mission leaves the active set only after the inventory confirms the update.
func (s *DispatchServiceImpl) ClaimRewards(ctx context.Context, missionID string) (*primary.ClaimResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var claimed *secondary.MissionRecord
	err := s.locked(ctx, func(ctx context.Context) error {
		now := s.clock.Now()

		// 1. Fetch mission and derive its status from elapsed time
		idx := s.indexOf(missionID)
		claimCtx := coremission.ClaimContext{MissionID: missionID, MissionExists: idx >= 0}
		var m *secondary.MissionRecord
		if idx >= 0 {
			m = s.active[idx]
			claimCtx.Status = coremission.EffectiveStatus(coremission.Status(m.Status), m.EndTime, now)
			claimCtx.Remaining = coremission.Remaining(m.EndTime, now).String()
		}

		// 2. Guard check
		if result := coremission.CanClaimMission(claimCtx); !result.Allowed {
			return result.Error()
		}
		if m.Status != string(claimCtx.Status) {
			m.Status = string(claimCtx.Status)
			if err := s.persistActive(ctx); err != nil {
				return err
			}
		}

		reg, ok := s.catalog.FindRegion(m.RegionID)
		if !ok {
			return fmt.Errorf("%w: mission %s targets region %s which is no longer in the catalog", coremission.ErrRegionNotFound, m.ID, m.RegionID)
		}

		// 3. Roll once; a retried claim reuses the pending rewards
		if m.Rewards == nil {
			rewards, great, err := s.rollRewards(ctx, m, reg)
			if err != nil {
				return err
			}
			m.Rewards = rewards
			m.GreatSuccess = great
			if err := s.persistActive(ctx); err != nil {
				return err
			}
		}

		// 4. Apply to inventory before touching terminal state
		grant := secondary.RewardGrant{
			GrantID: m.ID,
			UserID:  s.playerID(ctx),
			Deltas:  reward.Map(m.Rewards).Clone(),
		}
		if err := s.inventory.ApplyRewards(ctx, grant); err != nil {
			s.logger.Warn("reward application failed; mission stays claimable", "mission_id", m.ID, "err", err)
			return fmt.Errorf("%w: failed to apply rewards for mission %s: %w", coremission.ErrPersistence, m.ID, err)
		}

		// 5. Move to history. A failed save leaves the mission claimable and
		// the repeated grant is acknowledged without crediting twice.
		m.Status = string(coremission.StatusClaimed)
		m.ClaimedAt = now.UnixMilli()
		s.active = slices.Delete(s.active, idx, idx+1)
		if err := s.persistActive(ctx); err != nil {
			return err
		}
		s.pushHistory(m)
		if err := s.repo.AppendHistory(ctx, m, s.opts.HistoryLimit); err != nil {
			s.logger.Warn("failed to persist mission history", "mission_id", m.ID, "err", err)
		}
		claimed = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("rewards claimed", "mission_id", claimed.ID, "region_id", claimed.RegionID, "rewards", claimed.Rewards, "great_success", claimed.GreatSuccess)

	return &primary.ClaimResult{
		MissionID:    claimed.ID,
		Rewards:      reward.Map(claimed.Rewards).Clone(),
		GreatSuccess: claimed.GreatSuccess,
	}, nil
}

// CancelMission removes a mission from the active set without reward.
func (s *DispatchServiceImpl) CancelMission(ctx context.Context, missionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.locked(ctx, func(ctx context.Context) error {
		idx := s.indexOf(missionID)
		if idx < 0 {
			return nil
		}
		m := s.active[idx]
		s.active = slices.Delete(s.active, idx, idx+1)
		if err := s.persistActive(ctx); err != nil {
			return err
		}

		s.logger.Info("mission cancelled", "mission_id", m.ID, "units", m.UnitIDs)
		return nil
	})
}

// GetMission retrieves an active mission by ID.
func (s *DispatchServiceImpl) GetMission(ctx context.Context, missionID string) (*primary.Mission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh(ctx)

	idx := s.indexOf(missionID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", coremission.ErrMissionNotFound, missionID)
	}
	return s.recordToMission(s.active[idx]), nil
}

// ListActive lists ongoing and completed missions in start order.
func (s *DispatchServiceImpl) ListActive(ctx context.Context) []*primary.Mission {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh(ctx)

	missions := make([]*primary.Mission, len(s.active))
	for i, r := range s.active {
		missions[i] = s.recordToMission(r)
	}
	return missions
}

// ListHistory lists claimed missions, most recent first.
func (s *DispatchServiceImpl) ListHistory(ctx context.Context) []*primary.Mission {
	s.mu.Lock()
	defer s.mu.Unlock()

	if history, err := s.repo.LoadHistory(ctx, s.opts.HistoryLimit); err != nil {
		s.logger.Warn("serving cached history", "err", err)
	} else {
		s.history = history
	}

	missions := make([]*primary.Mission, len(s.history))
	for i, r := range s.history {
		missions[i] = s.recordToMission(r)
	}
	return missions
}

// IsUnitDispatched reports whether unitID is attached to an active mission.
func (s *DispatchServiceImpl) IsUnitDispatched(ctx context.Context, unitID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh(ctx)
	return s.ownerOf(unitID) != ""
}

// AvailableUnits returns the ids in allUnitIDs that are not on an active mission.
func (s *DispatchServiceImpl) AvailableUnits(ctx context.Context, allUnitIDs []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh(ctx)

	available := make([]string, 0, len(allUnitIDs))
	for _, id := range allUnitIDs {
		if s.ownerOf(id) == "" {
			available = append(available, id)
		}
	}
	return available
}

// Slots reports how many dispatch slots are in use and the ceiling.
func (s *DispatchServiceImpl) Slots(ctx context.Context) (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh(ctx)
	return len(s.active), s.opts.MaxSlots
}

// Helper methods. Callers must hold s.mu.

func (s *DispatchServiceImpl) rollRewards(ctx context.Context, m *secondary.MissionRecord, reg region.Region) (reward.Map, bool, error) {
	var (
		levels       []int
		elementMatch bool
		seen         = make(map[string]bool, len(m.UnitIDs))
	)
	for _, id := range m.UnitIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		exists, err := s.units.Exists(ctx, id)
		if err != nil {
			return nil, false, fmt.Errorf("failed to look up unit %s: %w", id, err)
		}
		if !exists {
			// Units released from the roster mid-mission contribute nothing.
			continue
		}
		level, err := s.units.LevelOf(ctx, id)
		if err != nil {
			return nil, false, fmt.Errorf("failed to get level of unit %s: %w", id, err)
		}
		levels = append(levels, level)

		if s.opts.GreatSuccess && !elementMatch {
			element, err := s.units.ElementOf(ctx, id)
			if err != nil {
				return nil, false, fmt.Errorf("failed to get element of unit %s: %w", id, err)
			}
			elementMatch = reg.MatchesElement(element)
		}
	}

	great := false
	if s.opts.GreatSuccess {
		great = reward.RollGreatSuccess(reward.GreatSuccessChance(elementMatch), s.rng)
	}

	rewards := reward.Resolve(reg.Rewards, reward.BonusFactor(levels), s.rng)
	if great {
		rewards = reward.ApplyGreatSuccess(rewards, reward.GreatSuccessMultiplier)
	}
	return rewards, great, nil
}

// playerID prefers the player carried by ctx over the configured default.
func (s *DispatchServiceImpl) playerID(ctx context.Context) string {
	if id := ctxutil.PlayerFromContext(ctx); id != "" {
		return id
	}
	return s.opts.UserID
}

func (s *DispatchServiceImpl) nextID(start int64) string {
	for {
		id := coremission.GenerateMissionID(start, s.newToken())
		if s.indexOf(id) < 0 {
			return id
		}
	}
}

func (s *DispatchServiceImpl) indexOf(missionID string) int {
	for i, m := range s.active {
		if m.ID == missionID {
			return i
		}
	}
	return -1
}

// ownerOf returns the active mission holding unitID, or empty string.
func (s *DispatchServiceImpl) ownerOf(unitID string) string {
	for _, m := range s.active {
		if slices.Contains(m.UnitIDs, unitID) {
			return m.ID
		}
	}
	return ""
}

func (s *DispatchServiceImpl) pushHistory(m *secondary.MissionRecord) {
	s.history = slices.Insert(s.history, 0, m)
	if s.opts.HistoryLimit >= 0 && len(s.history) > s.opts.HistoryLimit {
		s.history = s.history[:s.opts.HistoryLimit]
	}
}

// locked runs fn under the store lock with the active set freshly loaded,
// so another process sharing the store cannot interleave with fn.
func (s *DispatchServiceImpl) locked(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.repo.WithinLock(ctx, func(ctx context.Context) error {
		if err := s.reload(ctx); err != nil {
			return err
		}
		return fn(ctx)
	})
}

// reload replaces the cached active set with the persisted one.
func (s *DispatchServiceImpl) reload(ctx context.Context) error {
	records, err := s.repo.LoadActive(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to load active missions: %w", coremission.ErrPersistence, err)
	}
	active := make([]*secondary.MissionRecord, 0, len(records))
	for _, r := range records {
		if !coremission.Status(r.Status).IsActive() {
			s.logger.Warn("skipping persisted mission with inactive status", "mission_id", r.ID, "status", r.Status)
			continue
		}
		active = append(active, r)
	}
	s.active = active
	return nil
}

// refresh reloads for queries; on failure the cached set is served.
func (s *DispatchServiceImpl) refresh(ctx context.Context) {
	if err := s.reload(ctx); err != nil {
		s.logger.Warn("serving cached missions", "err", err)
	}
}

// persistActive hands a snapshot of the active set to the repository.
func (s *DispatchServiceImpl) persistActive(ctx context.Context) error {
	snapshot := make([]*secondary.MissionRecord, len(s.active))
	for i, m := range s.active {
		snapshot[i] = copyRecord(m)
	}
	if err := s.repo.SaveActive(ctx, snapshot); err != nil {
		return fmt.Errorf("%w: failed to save active missions: %w", coremission.ErrPersistence, err)
	}
	return nil
}

func copyRecord(m *secondary.MissionRecord) *secondary.MissionRecord {
	c := *m
	c.UnitIDs = slices.Clone(m.UnitIDs)
	c.Rewards = reward.Map(m.Rewards).Clone()
	return &c
}

func (s *DispatchServiceImpl) recordToMission(r *secondary.MissionRecord) *primary.Mission {
	name := r.RegionID
	if reg, ok := s.catalog.FindRegion(r.RegionID); ok {
		name = reg.Name
	}
	progress := 1.0
	if r.Status == string(coremission.StatusOngoing) {
		progress = coremission.Progress(r.StartTime, r.EndTime, s.clock.Now())
	}
	return &primary.Mission{
		ID:           r.ID,
		RegionID:     r.RegionID,
		RegionName:   name,
		UnitIDs:      slices.Clone(r.UnitIDs),
		StartTime:    r.StartTime,
		Duration:     r.Duration,
		EndTime:      r.EndTime,
		Status:       r.Status,
		Progress:     progress,
		Rewards:      reward.Map(r.Rewards).Clone(),
		GreatSuccess: r.GreatSuccess,
		ClaimedAt:    r.ClaimedAt,
	}
}

// Ensure DispatchServiceImpl implements the interface
var _ primary.DispatchService = (*DispatchServiceImpl)(nil)
