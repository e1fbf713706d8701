package bus

import (
	"sync"
	"time"
)

// Record is one event observed by a Recorder.
type Record struct {
	Event Event
	At    time.Time
}

// Recorder is a subscriber that keeps the most recent events in memory.
type Recorder struct {
	id    SubscriberID
	limit int

	mu      sync.Mutex
	records []Record
	now     func() time.Time
}

// NewRecorder returns a Recorder keeping at most limit events (limit <= 0
// keeps everything).
func NewRecorder(limit int) *Recorder {
	return &Recorder{id: NewSubscriberID(), limit: limit, now: time.Now}
}

// Attach registers the recorder for tags on b.
func (r *Recorder) Attach(b *Bus, tags ...Tag) {
	hs := make(Handlers, len(tags))
	for _, t := range tags {
		hs[t] = r.record
	}
	b.Register(r.id, hs)
}

// Detach removes the recorder from b.
func (r *Recorder) Detach(b *Bus) { b.Unregister(r.id) }

func (r *Recorder) record(e Event) {
	r.mu.Lock()
	r.records = append(r.records, Record{Event: e, At: r.now()})
	if r.limit > 0 && len(r.records) > r.limit {
		r.records = append(r.records[:0:0], r.records[len(r.records)-r.limit:]...)
	}
	r.mu.Unlock()
}

// Records returns a copy of the recorded events, oldest first.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Tags returns the tags of the recorded events, oldest first.
func (r *Recorder) Tags() []Tag {
	recs := r.Records()
	out := make([]Tag, len(recs))
	for i, rec := range recs {
		out[i] = rec.Event.Tag()
	}
	return out
}
