package app

import (
	"context"
	"fmt"

	coreunit "github.com/example/dispatch/internal/core/unit"
	"github.com/example/dispatch/internal/ctxutil"
	"github.com/example/dispatch/internal/ports/primary"
	"github.com/example/dispatch/internal/ports/secondary"
)

// RosterServiceImpl implements the RosterService interface.
type RosterServiceImpl struct {
	unitRepo     secondary.UnitRepository
	materialRepo secondary.MaterialRepository
	dispatch     primary.DispatchService
	defaultUser  string
}

// NewRosterService creates a new RosterService with injected dependencies.
func NewRosterService(unitRepo secondary.UnitRepository, materialRepo secondary.MaterialRepository, dispatch primary.DispatchService, defaultUser string) *RosterServiceImpl {
	return &RosterServiceImpl{
		unitRepo:     unitRepo,
		materialRepo: materialRepo,
		dispatch:     dispatch,
		defaultUser:  defaultUser,
	}
}

// AddUnit adds a unit to the roster.
func (s *RosterServiceImpl) AddUnit(ctx context.Context, req primary.AddUnitRequest) (*primary.Unit, error) {
	exists, err := s.unitRepo.Exists(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	guard := coreunit.CanAddUnit(coreunit.AddUnitContext{
		ID:       req.ID,
		Name:     req.Name,
		Level:    req.Level,
		Element:  req.Element,
		IDExists: exists,
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	record := &secondary.UnitRecord{
		ID:      req.ID,
		Name:    req.Name,
		Level:   req.Level,
		Element: coreunit.NormalizeElement(req.Element),
	}
	if err := s.unitRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to add unit: %w", err)
	}
	return s.recordToUnit(record, nil), nil
}

// ListUnits returns every unit with its dispatch state.
func (s *RosterServiceImpl) ListUnits(ctx context.Context) ([]*primary.Unit, error) {
	records, err := s.unitRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	owners := make(map[string]string)
	for _, m := range s.dispatch.ListActive(ctx) {
		for _, id := range m.UnitIDs {
			owners[id] = m.ID
		}
	}

	units := make([]*primary.Unit, len(records))
	for i, r := range records {
		units[i] = s.recordToUnit(r, owners)
	}
	return units, nil
}

// Inventory returns the current player's material balances.
func (s *RosterServiceImpl) Inventory(ctx context.Context) (map[string]int, error) {
	userID := ctxutil.PlayerFromContext(ctx)
	if userID == "" {
		userID = s.defaultUser
	}
	return s.materialRepo.ListMaterials(ctx, userID)
}

func (s *RosterServiceImpl) recordToUnit(r *secondary.UnitRecord, owners map[string]string) *primary.Unit {
	missionID := owners[r.ID]
	return &primary.Unit{
		ID:         r.ID,
		Name:       r.Name,
		Level:      r.Level,
		Element:    r.Element,
		Dispatched: missionID != "",
		MissionID:  missionID,
	}
}

// Ensure RosterServiceImpl implements the interface
var _ primary.RosterService = (*RosterServiceImpl)(nil)
