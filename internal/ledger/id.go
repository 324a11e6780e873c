package ledger

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// NewIDGenerator returns the production id generator: current time in
// milliseconds joined with a random integer below 100000. Uniqueness is
// probabilistic; no cross-process coordination exists, and the store
// rechecks against its own sequence on assignment.
func NewIDGenerator() func() string {
	return func() string {
		return fmt.Sprintf("%d_%d", time.Now().UnixMilli(), rand.IntN(100000))
	}
}
