package services

import (
	"hash/fnv"
	"sync"
)

const lockStripes = 64

// draftLocks serializes requests touching the same draft within this process
type draftLocks struct {
	stripes [lockStripes]sync.Mutex
}

func (l *draftLocks) lock(draftID string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(draftID))
	m := &l.stripes[h.Sum32()%lockStripes]
	m.Lock()
	return m.Unlock
}
