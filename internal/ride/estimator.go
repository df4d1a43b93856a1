package ride

import (
	"fmt"
	"strconv"

	"github.com/fleetlink/fleetlink/internal/domain"
)

// Estimator maps an origin/destination pincode pair to a trip duration in
// whole hours. Services take it as a dependency so the heuristic below can be
// swapped for a real routing backend without touching orchestration code.
type Estimator func(fromPincode, toPincode string) (int, error)

// EstimateDuration is the default Estimator. The formula is a documented
// placeholder, not a distance model: max(1, |to-from| mod 24). Output is
// always in [1, 23]; a difference that is an exact multiple of 24 floors to
// the 1-hour minimum.
func EstimateDuration(fromPincode, toPincode string) (int, error) {
	from, err := strconv.Atoi(fromPincode)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidLocationCode, fromPincode)
	}
	to, err := strconv.Atoi(toPincode)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidLocationCode, toPincode)
	}

	diff := to - from
	if diff < 0 {
		diff = -diff
	}
	hours := diff % 24
	if hours < 1 {
		hours = 1
	}
	return hours, nil
}
