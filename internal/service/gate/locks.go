package gate

import "sync"

// plateLocks serializes gate operations per plate: concurrent entry/exit for
// different plates proceed in parallel, same-plate requests queue. Entries
// are never evicted; the lock population is bounded by the plate population,
// which is small for a single facility.
type plateLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newPlateLocks() *plateLocks {
	return &plateLocks{locks: make(map[string]*sync.Mutex)}
}

func (p *plateLocks) lock(plate string) func() {
	p.mu.Lock()
	m, ok := p.locks[plate]
	if !ok {
		m = &sync.Mutex{}
		p.locks[plate] = m
	}
	p.mu.Unlock()

	m.Lock()
	return m.Unlock
}
