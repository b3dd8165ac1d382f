package stats

import "time"

// SessionStatistics accumulates arrival and value statistics for one
// monitor run. Unlike Aggregate it never evicts: it summarizes the whole
// session, not the stored window.
type SessionStatistics struct {
	FirstArrival  time.Time
	LastArrival   time.Time
	Count         uint64
	IntervalStats *Welford
	ValueStats    *Welford
}

func NewSessionStatistics() *SessionStatistics {
	return &SessionStatistics{
		IntervalStats: NewWelford(),
		ValueStats:    NewWelford(),
	}
}

// Mark records an arrival without a value, feeding the inter-arrival
// interval accumulator.
func (session *SessionStatistics) Mark(at time.Time) {
	if session.Count == 0 {
		session.FirstArrival = at
	} else {
		session.IntervalStats.Update(at.Sub(session.LastArrival).Seconds())
	}
	session.Count++
	session.LastArrival = at
}

// Observe records an arrival carrying a value.
func (session *SessionStatistics) Observe(at time.Time, value float64) {
	session.Mark(at)
	session.ValueStats.Update(value)
}
