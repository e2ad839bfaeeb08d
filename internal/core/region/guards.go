package region

import "fmt"

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// UnlockContext carries what the unlock gate needs to know about the player.
type UnlockContext struct {
	RegionID      string
	FacilityLevel int
	Condition     *UnlockCondition
}

// CanUnlockRegion evaluates whether a region is available to the player.
// Rule: regions without an unlock condition are always open.
func CanUnlockRegion(ctx UnlockContext) GuardResult {
	if ctx.Condition == nil {
		return GuardResult{Allowed: true}
	}
	if ctx.FacilityLevel < ctx.Condition.FacilityLevel {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("Region %s requires facility level %d (current: %d)", ctx.RegionID, ctx.Condition.FacilityLevel, ctx.FacilityLevel),
		}
	}
	return GuardResult{Allowed: true}
}
