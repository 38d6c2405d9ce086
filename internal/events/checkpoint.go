package events

import "sync"

// checkpoint remembers the last sequence delivered per partition. Events
// without a sequence always pass.
type checkpoint struct {
	mu   sync.Mutex
	last map[string]int64
}

func newCheckpoint() *checkpoint {
	return &checkpoint{last: map[string]int64{}}
}

// advance reports whether seq is newer than anything seen for its partition
// and records it if so. Redeliveries and stale events return false.
func (c *checkpoint) advance(partitionKey string, seq int64) bool {
	if seq <= 0 {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq <= c.last[partitionKey] {
		return false
	}
	c.last[partitionKey] = seq
	return true
}
