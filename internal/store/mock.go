package store

import (
	"context"
	"errors"
	"sync"
)

// ErrMockFailure is returned by a MemRepo configured to fail.
var ErrMockFailure = errors.New("mock persistence failure")

// MemRepo is an in-memory StateRepo for testing. Records round-trip
// through the same envelope encoding as the database backends.
type MemRepo struct {
	mu       sync.Mutex
	records  map[Key][]byte
	sessions []SessionRecord
	seq      int64

	// FailLoads and FailWrites make the corresponding calls return
	// ErrMockFailure without touching state.
	FailLoads  bool
	FailWrites bool

	// Applies counts successful Apply calls.
	Applies int
}

// NewMemRepo creates an empty MemRepo.
func NewMemRepo() *MemRepo {
	return &MemRepo{records: make(map[Key][]byte)}
}

func (m *MemRepo) Load(_ context.Context, key Key, dst any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailLoads {
		return false, ErrMockFailure
	}
	raw, ok := m.records[key]
	if !ok {
		return false, nil
	}
	if err := DecodeRecord(raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (m *MemRepo) Apply(_ context.Context, w Write) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites {
		return ErrMockFailure
	}

	staged := make(map[Key][]byte, len(w.Records))
	for key, v := range w.Records {
		raw, err := EncodeRecord(v)
		if err != nil {
			return err
		}
		staged[key] = raw
	}
	for key, raw := range staged {
		m.records[key] = raw
	}

	if w.Session != nil {
		if w.Session.Sequence == 0 {
			m.seq++
			w.Session.Sequence = m.seq
		}
		m.sessions = append(m.sessions, *w.Session)
	}
	m.Applies++
	return nil
}

func (m *MemRepo) Sessions(_ context.Context, opts QueryOpts) ([]SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailLoads {
		return nil, ErrMockFailure
	}
	var out []SessionRecord
	for _, s := range m.sessions {
		if opts.After > 0 && s.Sequence <= opts.After {
			continue
		}
		if opts.Before > 0 && s.Sequence >= opts.Before {
			continue
		}
		if !opts.From.IsZero() && s.Timestamp.Before(opts.From) {
			continue
		}
		if !opts.To.IsZero() && s.Timestamp.After(opts.To) {
			continue
		}
		out = append(out, s)
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[len(out)-opts.Limit:]
	}
	return out, nil
}

func (m *MemRepo) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites {
		return ErrMockFailure
	}
	m.records = make(map[Key][]byte)
	m.sessions = nil
	return nil
}

// SetRaw stores raw bytes under key, bypassing encoding.
func (m *MemRepo) SetRaw(key Key, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = raw
}
