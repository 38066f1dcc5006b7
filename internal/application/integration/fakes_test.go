package integration

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hotelier/backend/internal/domain/integration"
)

// ---------------------------------------------------------------------------
// In-memory test doubles for the ports the application layer depends on
// ---------------------------------------------------------------------------

type memIntegrationRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]*integration.Integration
	updates []integration.SyncStateUpdate
}

func newMemIntegrationRepo(records ...*integration.Integration) *memIntegrationRepo {
	r := &memIntegrationRepo{records: make(map[uuid.UUID]*integration.Integration)}
	for _, rec := range records {
		r.records[rec.ID] = rec
	}
	return r
}

func (r *memIntegrationRepo) FindByID(_ context.Context, id uuid.UUID) (*integration.Integration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, integration.ErrIntegrationNotFound
	}
	copied := *rec
	return &copied, nil
}

func (r *memIntegrationRepo) FindByHotelAndType(_ context.Context, hotelID uuid.UUID, typ integration.Type) (*integration.Integration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.HotelID == hotelID && rec.Type == typ {
			copied := *rec
			return &copied, nil
		}
	}
	return nil, integration.ErrIntegrationNotFound
}

func (r *memIntegrationRepo) Save(_ context.Context, rec *integration.Integration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *rec
	r.records[rec.ID] = &copied
	return nil
}

func (r *memIntegrationRepo) UpdateSyncState(_ context.Context, id uuid.UUID, update integration.SyncStateUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return integration.ErrIntegrationNotFound
	}
	rec.SyncStatus = update.SyncStatus
	rec.LastSync = update.LastSync
	rec.SyncStartedAt = update.SyncStartedAt
	rec.ErrorCount = update.ErrorCount
	rec.LastError = update.LastError
	r.updates = append(r.updates, update)
	return nil
}

func (r *memIntegrationRepo) appliedUpdates() []integration.SyncStateUpdate {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]integration.SyncStateUpdate, len(r.updates))
	copy(out, r.updates)
	return out
}

var _ integration.Repository = (*memIntegrationRepo)(nil)

type memLogRepo struct {
	mu      sync.Mutex
	entries []integration.Log
}

func newMemLogRepo() *memLogRepo {
	return &memLogRepo{}
}

func (r *memLogRepo) Append(_ context.Context, entry *integration.Log) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memLogRepo) FindByIntegration(_ context.Context, integrationID uuid.UUID, filter integration.LogFilter) ([]integration.Log, int64, error) {
	matched := r.entriesFor(integrationID)
	filtered := matched[:0:0]
	for _, e := range matched {
		if filter.OperationType != nil && e.OperationType != *filter.OperationType {
			continue
		}
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered, int64(len(filtered)), nil
}

func (r *memLogRepo) entriesFor(integrationID uuid.UUID) []integration.Log {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []integration.Log
	for _, e := range r.entries {
		if e.IntegrationID == integrationID {
			out = append(out, e)
		}
	}
	return out
}

var _ integration.LogRepository = (*memLogRepo)(nil)

type memLock struct {
	mu     sync.Mutex
	held   map[uuid.UUID]string
	err    error
	denied bool
}

func newMemLock() *memLock {
	return &memLock{held: make(map[uuid.UUID]string)}
}

func (l *memLock) Acquire(_ context.Context, integrationID uuid.UUID, _ time.Duration) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return "", false, l.err
	}
	if l.denied {
		return "", false, nil
	}
	if _, taken := l.held[integrationID]; taken {
		return "", false, nil
	}
	token := uuid.NewString()
	l.held[integrationID] = token
	return token, true, nil
}

func (l *memLock) Release(_ context.Context, integrationID uuid.UUID, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[integrationID] == token {
		delete(l.held, integrationID)
	}
	return nil
}

var _ integration.SyncLock = (*memLock)(nil)

// fakeSource implements SyncSource with pluggable fetch/apply behavior
type fakeSource struct {
	typ         integration.Type
	collections []string
	plans       map[string]*integration.CollectionSync
	testFn      func(ctx context.Context, profile *integration.ConnectionProfile) (*integration.TestReport, error)
}

func (s *fakeSource) Type() integration.Type { return s.typ }

func (s *fakeSource) Collections() []string { return s.collections }

func (s *fakeSource) SyncPlan(collection string) (*integration.CollectionSync, error) {
	plan, ok := s.plans[collection]
	if !ok {
		return nil, integration.ErrUnknownCollection
	}
	return plan, nil
}

func (s *fakeSource) Test(ctx context.Context, profile *integration.ConnectionProfile) (*integration.TestReport, error) {
	if s.testFn != nil {
		return s.testFn(ctx, profile)
	}
	return &integration.TestReport{Connection: true}, nil
}

var _ integration.SyncSource = (*fakeSource)(nil)

// fakePOS records the last call and returns canned results
type fakePOS struct {
	result *integration.CheckResult
	err    error
	calls  int
}

func (p *fakePOS) PostGuestCheck(_ context.Context, _ *integration.ConnectionProfile, _ *integration.GuestCheck) (*integration.CheckResult, error) {
	p.calls++
	return p.result, p.err
}

func (p *fakePOS) GetCheckStatus(_ context.Context, _ *integration.ConnectionProfile, _ string) (*integration.CheckResult, error) {
	p.calls++
	return p.result, p.err
}

func (p *fakePOS) VoidCheck(_ context.Context, _ *integration.ConnectionProfile, _, _ string) (*integration.CheckResult, error) {
	p.calls++
	return p.result, p.err
}

var _ integration.POSPort = (*fakePOS)(nil)

type fakePMS struct {
	stay    *integration.StayResult
	request *integration.GuestRequestResult
	room    *integration.RoomStatusResult
	err     error
	calls   int
}

func (p *fakePMS) PostCheckIn(_ context.Context, _ *integration.ConnectionProfile, _ *integration.CheckInRequest) (*integration.StayResult, error) {
	p.calls++
	return p.stay, p.err
}

func (p *fakePMS) PostCheckOut(_ context.Context, _ *integration.ConnectionProfile, _ *integration.CheckOutRequest) (*integration.StayResult, error) {
	p.calls++
	return p.stay, p.err
}

func (p *fakePMS) SendGuestRequest(_ context.Context, _ *integration.ConnectionProfile, _ *integration.GuestRequest) (*integration.GuestRequestResult, error) {
	p.calls++
	return p.request, p.err
}

func (p *fakePMS) GetRoomStatus(_ context.Context, _ *integration.ConnectionProfile, _ string) (*integration.RoomStatusResult, error) {
	p.calls++
	return p.room, p.err
}

var _ integration.PMSPort = (*fakePMS)(nil)
