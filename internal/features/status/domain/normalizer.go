package domain

import "strings"

// Vendor vocabulary per stage. Lookups happen on canonicalized text.
var (
	returnedAliases = map[string]struct{}{
		"returned":         {},
		"return to origin": {},
	}
	inTransitAliases = map[string]struct{}{
		"in transit":     {},
		"shipped":        {},
		"reached at hub": {},
		"departed hub":   {},
		// Failed delivery attempts stay "in motion" for the customer.
		"undelivered": {},
	}
	pickedUpAliases = map[string]struct{}{
		"picked up":        {},
		"out for pickup":   {},
		"pickup completed": {},
	}
	pickupScheduledAliases = map[string]struct{}{
		"pickup scheduled": {},
		"pickup generated": {},
	}
	orderPlacedAliases = map[string]struct{}{
		"order placed": {},
		"processing":   {},
	}
)

// rule is one classification step. Rules are evaluated in slice order and the first match wins.
type rule struct {
	stage Stage
	match func(canonical string) bool
}

var rules = []rule{
	{StageReturned, func(c string) bool { return strings.Contains(c, "rto") || in(returnedAliases, c) }},
	{StageDelivered, func(c string) bool { return c == "delivered" }},
	{StageOutForDelivery, func(c string) bool { return c == "out for delivery" }},
	{StageInTransit, func(c string) bool { return in(inTransitAliases, c) }},
	{StagePickedUp, func(c string) bool { return in(pickedUpAliases, c) }},
	{StagePickupScheduled, func(c string) bool { return in(pickupScheduledAliases, c) }},
	{StageOrderPlaced, func(c string) bool { return in(orderPlacedAliases, c) }},
}

func in(set map[string]struct{}, c string) bool {
	_, ok := set[c]
	return ok
}

// Canonicalize lower-cases raw, turns underscores into spaces and collapses whitespace.
func Canonicalize(raw string) string {
	raw = strings.ReplaceAll(strings.ToLower(raw), "_", " ")
	return strings.Join(strings.Fields(raw), " ")
}

// Classify maps a raw vendor status to a stage. matched is false when no rule applied
// and the Order Placed fallback was used.
func Classify(raw string) (stage Stage, matched bool) {
	canonical := Canonicalize(raw)
	for _, r := range rules {
		if r.match(canonical) {
			return r.stage, true
		}
	}
	return StageOrderPlaced, false
}

// Normalize converts any vendor status text into a fully populated Result.
// It is total: every input, including the empty string, yields a Result.
func Normalize(raw string) Result {
	stage, _ := Classify(raw)
	return Describe(stage)
}

// NormalizeNullable treats a missing status exactly like an empty one.
func NormalizeNullable(raw *string) Result {
	if raw == nil {
		return Normalize("")
	}
	return Normalize(*raw)
}
