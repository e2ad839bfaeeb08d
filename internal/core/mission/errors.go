package mission

import "errors"

// Error taxonomy for dispatch operations. All are recoverable; match with errors.Is.
var (
	ErrRegionNotFound        = errors.New("region not found")
	ErrInvalidUnits          = errors.New("invalid units")
	ErrUnitAlreadyDispatched = errors.New("unit already dispatched")
	ErrSlotsFull             = errors.New("dispatch slots full")
	ErrInvalidDuration       = errors.New("invalid duration")
	ErrMissionNotFound       = errors.New("mission not found")
	ErrNotYetComplete        = errors.New("mission not yet complete")
	ErrPersistence           = errors.New("persistence error")
)
