// Package track runs the read-modify-write cycle for a token: fetch the
// stored document, fold in one observation through the pure core, write
// the replacement back. The clock and the observation sources are
// injected; the monitor loops here own all scheduling.
package track

import (
	"context"
	"fmt"
	"time"

	"kvtrack/core"
	"kvtrack/document"
	"kvtrack/stats"
	"kvtrack/storage"
	"kvtrack/window"
)

// SensorDashboard maintains a reading-tracking document for one token.
type SensorDashboard struct {
	// Now supplies timestamps for readings that do not carry one.
	// Injectable for tests; the core itself never reads a clock.
	Now func() time.Time

	store storage.Store
	token string
	cfg   core.SensorConfig
}

func NewSensorDashboard(store storage.Store, token string, cfg core.SensorConfig) *SensorDashboard {
	return &SensorDashboard{
		Now:   time.Now,
		store: store,
		token: token,
		cfg:   cfg,
	}
}

// LogReading records one sample and returns the document that was
// persisted.
func (dash *SensorDashboard) LogReading(ctx context.Context, reading document.Reading) (*document.SensorDocument, error) {
	if reading.Timestamp.IsZero() {
		reading.Timestamp = dash.Now().UTC()
	}

	raw, _, err := dash.store.Fetch(ctx, dash.token)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}

	next := core.NextSensorDocument(document.ParseSensorDocument(raw), reading, dash.cfg)

	data, err := next.Serialize()
	if err != nil {
		return nil, fmt.Errorf("serialize document: %w", err)
	}
	if err := dash.store.Persist(ctx, dash.token, data); err != nil {
		return nil, fmt.Errorf("persist document: %w", err)
	}
	return next, nil
}

// Document returns the stored document, the empty one when nothing is
// stored yet.
func (dash *SensorDashboard) Document(ctx context.Context) (*document.SensorDocument, error) {
	raw, _, err := dash.store.Fetch(ctx, dash.token)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	return document.ParseSensorDocument(raw), nil
}

// History returns the last limit readings, all of them when limit is
// zero.
func (dash *SensorDashboard) History(ctx context.Context, limit int) ([]document.Reading, error) {
	doc, err := dash.Document(ctx)
	if err != nil {
		return nil, err
	}
	return window.Tail(doc.History, limit), nil
}

func (dash *SensorDashboard) Stats(ctx context.Context) (map[string]document.FieldStats, error) {
	doc, err := dash.Document(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Stats, nil
}

// Monitor reads from source and logs one reading per tick until ctx is
// cancelled, then returns the session summary. Cycles never overlap:
// the remote store has no server-side merge, so there must be at most
// one in-flight update per token.
func (dash *SensorDashboard) Monitor(ctx context.Context, source ReadingSource, interval time.Duration, onUpdate func(*document.SensorDocument, error)) *stats.SessionStatistics {
	session := stats.NewSessionStatistics()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		dash.monitorOnce(ctx, source, session, onUpdate)
		select {
		case <-ctx.Done():
			return session
		case <-ticker.C:
		}
	}
}

func (dash *SensorDashboard) monitorOnce(ctx context.Context, source ReadingSource, session *stats.SessionStatistics, onUpdate func(*document.SensorDocument, error)) {
	reading, err := source.Read(ctx)
	if err != nil {
		onUpdate(nil, err)
		return
	}

	doc, err := dash.LogReading(ctx, reading)
	if err == nil {
		// Session values follow the first tracked field.
		if value, ok := firstFieldValue(doc.Current, dash.cfg.Fields); ok {
			session.Observe(doc.Current.Timestamp, value)
		} else {
			session.Mark(doc.Current.Timestamp)
		}
	}
	onUpdate(doc, err)
}

func firstFieldValue(reading *document.Reading, fields []string) (float64, bool) {
	if len(fields) == 0 {
		return 0, false
	}
	return reading.Value(fields[0])
}
