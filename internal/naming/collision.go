package naming

import "sync"

// CollisionDetector records which input claimed each output path. Directory
// runs flatten subdirectories, so two inputs sharing a stem map to the same
// output and the later conversion overwrites the earlier one. The detector
// only reports this; paths are never rewritten. All methods are goroutine-safe.
type CollisionDetector struct {
	mu     sync.Mutex
	owners map[string]string // output path → first input that claimed it
}

// NewCollisionDetector creates a ready-to-use detector.
func NewCollisionDetector() *CollisionDetector {
	return &CollisionDetector{owners: make(map[string]string)}
}

// Claim records input as a writer of output. When a different input already
// claimed output, Claim returns that input and true.
func (cd *CollisionDetector) Claim(input, output string) (owner string, collided bool) {
	cd.mu.Lock()
	defer cd.mu.Unlock()

	prev, exists := cd.owners[output]
	if !exists {
		cd.owners[output] = input
		return "", false
	}
	if prev == input {
		return "", false
	}
	return prev, true
}
