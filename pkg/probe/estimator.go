package probe

import (
	"errors"

	"github.com/chewxy/math32"
)

// ErrUnrepresentable is returned when the bridge formula has no finite result.
var ErrUnrepresentable = errors.New("probe: resistance estimate is not representable")

// minDenominator bounds 1 - BridgeCoefficient*v away from zero.
const minDenominator = 1e-6

// EstimateResistance maps the filtered bridge voltage v to a resistance:
//
//	Rx = R * (1 + k*v) / (1 - k*v)
//
// with R = ReferenceResistance and k = BridgeCoefficient.
func EstimateResistance(v float32) (float32, error) {
	kv := BridgeCoefficient * v
	den := 1 - kv
	if math32.Abs(den) < minDenominator {
		return math32.NaN(), ErrUnrepresentable
	}

	rx := ReferenceResistance * (1 + kv) / den
	if math32.IsNaN(rx) || math32.IsInf(rx, 0) {
		return rx, ErrUnrepresentable
	}
	return rx, nil
}
