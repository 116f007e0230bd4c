package domain

// Draw count bounds for a single request; a "10-pull" is the maximum batch
const (
	MinDrawCount = 1
	MaxDrawCount = 10
)

// Pity/guarantee policy
const (
	// PityThreshold is the number of consecutive below-rare draws after
	// which the next draw's pool is restricted to rare-or-better items.
	PityThreshold = 50

	// PityHistoryLimit is how many recent draws the coordinator loads to
	// evaluate the pity window. One extra beyond the threshold is enough.
	PityHistoryLimit = PityThreshold + 1
)

// DropRateEpsilon is the tolerance for normalized drop rates summing to 1.0
const DropRateEpsilon = 1e-6

// Reference types used in medal transaction and reward-grant records
const (
	RefTypeCharge = "charge"
	RefTypeAdmin  = "admin"
)
