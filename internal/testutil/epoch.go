package testutil

import "time"

// testEpoch is the fixed instant used by sample dates.
var testEpoch = time.Date(2024, 1, 2, 3, 4, 5, 678_000_000, time.UTC)

// Epoch returns the fixed instant used by sample dates.
func Epoch() time.Time { return testEpoch }
