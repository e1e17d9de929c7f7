package stream

import (
	"math"
	"strconv"
)

// Demand is the number of values a subscriber is currently willing to accept.
//
// Demand behaves as a saturating count: None (zero), Max(n), or Unlimited. Adding
// anything to Unlimited yields Unlimited, subtracting from Unlimited is a no-op, and
// subtracting below zero clamps at None. Demands are totally ordered, with Unlimited
// greater than every finite demand, so they compare with the usual Go operators.
type Demand int64

const (
	// None is a demand for no values. It is equivalent to Max(0).
	None Demand = 0

	// Unlimited is a demand for as many values as the publisher can produce.
	Unlimited Demand = math.MaxInt64
)

// Max returns a demand for at most n values. Negative values are a programming error and panic.
func Max(n int) Demand {
	if n < 0 {
		panic(ErrNegativeDemand)
	}
	return Demand(n)
}

// IsUnlimited reports whether d is Unlimited.
func (d Demand) IsUnlimited() bool {
	return d == Unlimited
}

// Max returns the finite number of requested values, or false when d is Unlimited.
func (d Demand) Max() (int, bool) {
	if d == Unlimited {
		return 0, false
	}
	return int(d), true
}

// Add returns d + o, saturating to Unlimited.
func (d Demand) Add(o Demand) Demand {
	if d == Unlimited || o == Unlimited {
		return Unlimited
	}
	if o > 0 && d > Unlimited-o {
		return Unlimited
	}
	return normalize(d + o)
}

// Sub returns d - o. Subtracting from Unlimited yields Unlimited, subtracting Unlimited
// from a finite demand yields None, and negative results clamp to None.
func (d Demand) Sub(o Demand) Demand {
	if d == Unlimited {
		return Unlimited
	}
	if o == Unlimited {
		return None
	}
	if o >= d {
		return None
	}
	return d - o
}

// Dec returns d with one satisfied value removed. Unlimited stays Unlimited and None
// stays None.
func (d Demand) Dec() Demand {
	return d.Sub(1)
}

// String returns "unlimited" or "max(n)".
func (d Demand) String() string {
	if d == Unlimited {
		return "unlimited"
	}
	return "max(" + strconv.FormatInt(int64(d), 10) + ")"
}

func normalize(d Demand) Demand {
	if d < 0 {
		return None
	}
	return d
}
