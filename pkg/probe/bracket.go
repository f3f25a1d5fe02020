package probe

// Bracket is the fixed reporting range around the first valid estimate.
// It starts unset and is armed exactly once.
type Bracket struct {
	set   bool
	lower float32
	upper float32
}

// Arm fixes the bracket around rx. It reports whether this call armed it;
// once set, later calls leave it untouched.
func (b *Bracket) Arm(rx float32) bool {
	if b.set {
		return false
	}
	b.set = true
	b.lower = rx - BracketHalfSpan
	b.upper = rx + BracketHalfSpan
	return true
}

// Bounds returns the bracket and whether it has been armed.
func (b Bracket) Bounds() (lower, upper float32, ok bool) {
	return b.lower, b.upper, b.set
}

// IsSet reports whether the bracket has been armed.
func (b Bracket) IsSet() bool {
	return b.set
}
