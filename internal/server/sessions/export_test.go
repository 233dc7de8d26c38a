package sessions

import "time"

// SetClock подменяет часы в тестах.
func (m *MemoryRevocations) SetClock(now func() time.Time) { m.now = now }
