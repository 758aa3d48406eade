package clans

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"citadel/internal/kv"
)

const (
	configKey     = "clanSystem"
	pendingPrefix = "clan_request_"
	recordPrefix  = "clan_request_data_"
)

var (
	ErrNotFound         = errors.New("request not found")
	ErrAlreadyProcessed = errors.New("request already processed")
	ErrPendingExists    = errors.New("user already has a pending request")
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Store persists clan requests and the system configuration. Pending
// markers are keyed by user, immutable records by request ID, so the
// two never collide: record keys carry the extra "data_" segment.
type Store struct {
	kv    *kv.Store
	clock Clock
}

func NewStore(store *kv.Store) *Store {
	return &Store{kv: store, clock: realClock{}}
}

func (s *Store) WithClock(clock Clock) {
	s.clock = clock
}

func (s *Store) Config() (SystemConfig, error) {
	var cfg SystemConfig
	found, err := s.kv.Get(kv.BucketConfig, configKey, &cfg)
	if err != nil {
		return SystemConfig{}, err
	}
	if !found {
		return SystemConfig{Embed: DefaultEmbedTemplate()}, nil
	}
	if cfg.Embed.Title == "" && cfg.Embed.Description == "" {
		cfg.Embed = DefaultEmbedTemplate()
	}
	return cfg, nil
}

func (s *Store) SaveConfig(cfg SystemConfig) error {
	return s.kv.Put(kv.BucketConfig, configKey, cfg)
}

// Pending returns the live marker for userID, if any.
func (s *Store) Pending(userID string) (Request, bool, error) {
	var req Request
	found, err := s.kv.Get(kv.BucketRequests, pendingPrefix+userID, &req)
	return req, found, err
}

// CreatePending writes the marker and the immutable record for a new
// request and increments the intake counter. The request ID is
// userID_epochMillis; a same-millisecond resubmit bumps the timestamp
// until the record key is free.
func (s *Store) CreatePending(req Request) (Request, error) {
	if _, exists, err := s.Pending(req.UserID); err != nil {
		return Request{}, err
	} else if exists {
		return Request{}, ErrPendingExists
	}

	now := s.clock.Now()
	millis := now.UnixMilli()
	for {
		candidate := fmt.Sprintf("%s_%d", req.UserID, millis)
		if found, err := s.kv.Get(kv.BucketRequests, recordPrefix+candidate, nil); err != nil {
			return Request{}, err
		} else if !found {
			req.ID = candidate
			break
		}
		millis++
	}

	req.Status = StatusPending
	req.SubmittedAt = now

	if err := s.kv.Put(kv.BucketRequests, recordPrefix+req.ID, req); err != nil {
		return Request{}, err
	}
	if err := s.kv.Put(kv.BucketRequests, pendingPrefix+req.UserID, req); err != nil {
		return Request{}, err
	}

	cfg, err := s.Config()
	if err != nil {
		return Request{}, err
	}
	cfg.Stats.TotalRequests++
	if err := s.SaveConfig(cfg); err != nil {
		return Request{}, err
	}
	return req, nil
}

// CancelPending undoes a CreatePending that could not be announced to
// staff: marker, record, and the intake counter are all rolled back.
func (s *Store) CancelPending(req Request) error {
	if err := s.kv.Delete(kv.BucketRequests, pendingPrefix+req.UserID); err != nil {
		return err
	}
	if err := s.kv.Delete(kv.BucketRequests, recordPrefix+req.ID); err != nil {
		return err
	}
	cfg, err := s.Config()
	if err != nil {
		return err
	}
	if cfg.Stats.TotalRequests > 0 {
		cfg.Stats.TotalRequests--
	}
	return s.SaveConfig(cfg)
}

// Record loads the immutable record for a request ID.
func (s *Store) Record(requestID string) (Request, bool, error) {
	var req Request
	found, err := s.kv.Get(kv.BucketRequests, recordPrefix+requestID, &req)
	return req, found, err
}

// Approve transitions a pending record to approved, removes the
// user's marker, and bumps the approved counter. A second decision on
// the same record fails with ErrAlreadyProcessed.
func (s *Store) Approve(requestID, staffID string) (Request, error) {
	return s.decide(requestID, func(req *Request) {
		req.Status = StatusApproved
		req.ApprovedBy = staffID
		req.ApprovedAt = s.clock.Now()
	}, func(stats *Stats) { stats.Approved++ })
}

// Reject transitions a pending record to rejected with the staff
// reason attached.
func (s *Store) Reject(requestID, staffID, reason string) (Request, error) {
	return s.decide(requestID, func(req *Request) {
		req.Status = StatusRejected
		req.RejectedBy = staffID
		req.RejectedAt = s.clock.Now()
		req.RejectReason = reason
	}, func(stats *Stats) { stats.Rejected++ })
}

func (s *Store) decide(requestID string, apply func(*Request), count func(*Stats)) (Request, error) {
	req, found, err := s.Record(requestID)
	if err != nil {
		return Request{}, err
	}
	if !found {
		return Request{}, ErrNotFound
	}
	if req.Status != StatusPending {
		return Request{}, ErrAlreadyProcessed
	}

	apply(&req)
	if err := s.kv.Put(kv.BucketRequests, recordPrefix+requestID, req); err != nil {
		return Request{}, err
	}
	if err := s.kv.Delete(kv.BucketRequests, pendingPrefix+req.UserID); err != nil {
		return Request{}, err
	}

	cfg, err := s.Config()
	if err != nil {
		return Request{}, err
	}
	count(&cfg.Stats)
	if err := s.SaveConfig(cfg); err != nil {
		return Request{}, err
	}
	return req, nil
}

// ListPending returns live markers only; record keys share the prefix
// but carry the "data_" segment and are skipped.
func (s *Store) ListPending() ([]Request, error) {
	entries, err := s.kv.List(kv.BucketRequests, pendingPrefix)
	if err != nil {
		return nil, err
	}
	requests := make([]Request, 0, len(entries))
	for _, entry := range entries {
		if strings.HasPrefix(entry.Key, recordPrefix) {
			continue
		}
		var req Request
		if err := entry.Decode(&req); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].SubmittedAt.Before(requests[j].SubmittedAt)
	})
	return requests, nil
}

// ListHistory returns processed records, newest first.
func (s *Store) ListHistory() ([]Request, error) {
	entries, err := s.kv.List(kv.BucketRequests, recordPrefix)
	if err != nil {
		return nil, err
	}
	requests := make([]Request, 0, len(entries))
	for _, entry := range entries {
		var req Request
		if err := entry.Decode(&req); err != nil {
			return nil, err
		}
		if req.Status == StatusPending {
			continue
		}
		requests = append(requests, req)
	}
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].SubmittedAt.After(requests[j].SubmittedAt)
	})
	return requests, nil
}

// ClearPending removes all live markers. Records are untouched.
func (s *Store) ClearPending() (int, error) {
	entries, err := s.kv.List(kv.BucketRequests, pendingPrefix)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, entry := range entries {
		if strings.HasPrefix(entry.Key, recordPrefix) {
			continue
		}
		if err := s.kv.Delete(kv.BucketRequests, entry.Key); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// ClearHistory removes every record, processed or not.
func (s *Store) ClearHistory() (int, error) {
	entries, err := s.kv.List(kv.BucketRequests, recordPrefix)
	if err != nil {
		return 0, err
	}
	for _, entry := range entries {
		if err := s.kv.Delete(kv.BucketRequests, entry.Key); err != nil {
			return 0, err
		}
	}
	return len(entries), nil
}

// ClearStats zeroes the counters without touching requests.
func (s *Store) ClearStats() error {
	cfg, err := s.Config()
	if err != nil {
		return err
	}
	cfg.Stats = Stats{}
	return s.SaveConfig(cfg)
}
