package track

import (
	"context"
	"fmt"
	"time"

	"kvtrack/core"
	"kvtrack/document"
	"kvtrack/stats"
	"kvtrack/storage"
)

// IPTracker maintains a scalar-tracking document for one token, with the
// external IP as the watched scalar.
type IPTracker struct {
	// Now supplies the observation timestamp. Injectable for tests.
	Now func() time.Time

	store  storage.Store
	source IPSource
	token  string
	cfg    core.IPConfig
}

func NewIPTracker(store storage.Store, source IPSource, token string, cfg core.IPConfig) *IPTracker {
	return &IPTracker{
		Now:    time.Now,
		store:  store,
		source: source,
		token:  token,
		cfg:    cfg,
	}
}

// UpdateResult reports one completed update cycle.
type UpdateResult struct {
	IP         string
	PreviousIP string
	Changed    bool
	Document   *document.IPDocument
}

// Update observes the current external IP and persists the next
// document.
func (tracker *IPTracker) Update(ctx context.Context) (*UpdateResult, error) {
	ip, err := tracker.source.ExternalIP(ctx)
	if err != nil {
		return nil, fmt.Errorf("observe external ip: %w", err)
	}

	raw, _, err := tracker.store.Fetch(ctx, tracker.token)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	prev := document.ParseIPDocument(raw)

	next := core.NextIPDocument(prev, ip, tracker.Now().UTC(), tracker.cfg)

	data, err := next.Serialize()
	if err != nil {
		return nil, fmt.Errorf("serialize document: %w", err)
	}
	if err := tracker.store.Persist(ctx, tracker.token, data); err != nil {
		return nil, fmt.Errorf("persist document: %w", err)
	}

	return &UpdateResult{
		IP:         ip,
		PreviousIP: prev.IP,
		Changed:    next.Changed,
		Document:   next,
	}, nil
}

// Document returns the stored document, the empty one when nothing is
// stored yet.
func (tracker *IPTracker) Document(ctx context.Context) (*document.IPDocument, error) {
	raw, _, err := tracker.store.Fetch(ctx, tracker.token)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	return document.ParseIPDocument(raw), nil
}

// Monitor runs one update per tick until ctx is cancelled, then returns
// the session summary. Cycles never overlap.
func (tracker *IPTracker) Monitor(ctx context.Context, interval time.Duration, onUpdate func(*UpdateResult, error)) *stats.SessionStatistics {
	session := stats.NewSessionStatistics()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		result, err := tracker.Update(ctx)
		if err == nil {
			session.Mark(result.Document.LastUpdated)
		}
		onUpdate(result, err)

		select {
		case <-ctx.Done():
			return session
		case <-ticker.C:
		}
	}
}
