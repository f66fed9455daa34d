package services

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/golang/glog"

	"github.com/careervault/vault/internal/dtos"
	"github.com/careervault/vault/internal/gateway"
	"github.com/careervault/vault/internal/models"
)

// RecordStore holds the canonical local snapshot of the user's application
// records and mediates every mutation through an optimistic-update protocol:
// the snapshot changes immediately, the matching remote call is dispatched,
// and on remote failure the previous state is restored and a classified
// error returned. The store never retries; that decision belongs to the
// caller so conflicting concurrent edits are not masked.
//
// Mutations on the same record id serialize in issue order. A mutation
// issued while a prior one is still in flight applies its optimistic change
// when it reaches the head of the queue, so intermediate states stay well
// defined. Mutations on distinct ids run concurrently.
type RecordStore struct {
	gateway gateway.SyncGateway

	mu      sync.Mutex
	records []models.ApplicationRecord
	queues  map[string]*idQueue
}

// idQueue is the per-identifier FIFO. The head holder runs; later arrivals
// park on their channel and are handed the queue in arrival order.
type idQueue struct {
	active  bool
	waiters []chan struct{}
}

func NewRecordStore(gw gateway.SyncGateway) *RecordStore {
	return &RecordStore{
		gateway: gw,
		queues:  map[string]*idQueue{},
	}
}

// acquire blocks until the caller holds the head of the id's mutation queue.
func (s *RecordStore) acquire(id string) {
	s.mu.Lock()
	q, ok := s.queues[id]
	if !ok {
		q = &idQueue{}
		s.queues[id] = q
	}
	if !q.active {
		q.active = true
		s.mu.Unlock()
		return
	}
	ready := make(chan struct{})
	q.waiters = append(q.waiters, ready)
	s.mu.Unlock()
	<-ready
}

func (s *RecordStore) release(id string) {
	s.mu.Lock()
	q := s.queues[id]
	if len(q.waiters) > 0 {
		ready := q.waiters[0]
		q.waiters = q.waiters[1:]
		s.mu.Unlock()
		close(ready)
		return
	}
	delete(s.queues, id)
	s.mu.Unlock()
}

// Load replaces the snapshot wholesale, normalizing to the canonical order
// (applied_at descending, id ascending on ties). Used after the initial
// fetch; always succeeds.
func (s *RecordStore) Load(records []models.ApplicationRecord) {
	sorted := slices.Clone(records)
	slices.SortFunc(sorted, compareRecords)

	s.mu.Lock()
	s.records = sorted
	s.mu.Unlock()
}

// Refresh pulls the full collection from the remote and loads it.
func (s *RecordStore) Refresh(ctx context.Context) error {
	records, err := s.gateway.FetchApplications(ctx)
	if err != nil {
		return err
	}
	s.Load(records)
	return nil
}

// Snapshot returns a copy of the current records in canonical order. The
// copy is the projection input; external code never mutates store state.
func (s *RecordStore) Snapshot() []models.ApplicationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.records)
}

func (s *RecordStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// indexOf requires s.mu held.
func (s *RecordStore) indexOf(id string) int {
	for i := range s.records {
		if s.records[i].ID == id {
			return i
		}
	}
	return -1
}

// SetStatus moves a record to a new status. Optimistic: the snapshot changes
// before the remote confirms; on failure the previous status is restored.
func (s *RecordStore) SetStatus(ctx context.Context, id string, newStatus string) error {
	const op = "set-status"
	if !models.ValidStatus(newStatus) {
		return gateway.Validationf(op, "invalid status %q", newStatus)
	}

	s.acquire(id)
	defer s.release(id)

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return gateway.Validationf(op, "record %s not in snapshot", id)
	}
	previous := s.records[i].Status
	s.records[i].Status = newStatus
	s.mu.Unlock()

	err := s.gateway.PatchApplication(ctx, id, dtos.RecordPatch{Status: &newStatus})
	if err != nil {
		s.mu.Lock()
		if i := s.indexOf(id); i >= 0 {
			s.records[i].Status = previous
		}
		s.mu.Unlock()
		glog.Warningf("[store]set-status %s rolled back to %q: %v", id, previous, err)
		return err
	}
	return nil
}

// Remove deletes a record. Optimistic: removed from the snapshot first; a
// failed remote delete re-inserts the record at its original ordinal
// position so the grouped and sorted views do not visibly reorder.
func (s *RecordStore) Remove(ctx context.Context, id string) error {
	const op = "remove"

	s.acquire(id)
	defer s.release(id)

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return gateway.Validationf(op, "record %s not in snapshot", id)
	}
	removed := s.records[i]
	position := i
	s.records = slices.Delete(s.records, i, i+1)
	s.mu.Unlock()

	err := s.gateway.DeleteApplication(ctx, id)
	if err != nil {
		s.mu.Lock()
		at := min(position, len(s.records))
		s.records = slices.Insert(s.records, at, removed)
		s.mu.Unlock()
		glog.Warningf("[store]remove %s rolled back: %v", id, err)
		return err
	}
	return nil
}

// Edit merges a partial update into a record. Optimistic; the pre-patch
// record is restored whole on remote failure.
func (s *RecordStore) Edit(ctx context.Context, id string, patch dtos.RecordPatch) error {
	const op = "edit"
	if patch.Status != nil && !models.ValidStatus(*patch.Status) {
		return gateway.Validationf(op, "invalid status %q", *patch.Status)
	}
	if patch.JobType != nil && !models.ValidJobType(*patch.JobType) {
		return gateway.Validationf(op, "invalid job type %q", *patch.JobType)
	}
	if patch.IsEmpty() {
		return gateway.Validationf(op, "empty patch")
	}

	s.acquire(id)
	defer s.release(id)

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return gateway.Validationf(op, "record %s not in snapshot", id)
	}
	previous := s.records[i]
	applyPatch(&s.records[i], patch)
	s.mu.Unlock()

	err := s.gateway.PatchApplication(ctx, id, patch)
	if err != nil {
		s.mu.Lock()
		if i := s.indexOf(id); i >= 0 {
			s.records[i] = previous
		}
		s.mu.Unlock()
		glog.Warningf("[store]edit %s rolled back: %v", id, err)
		return err
	}
	return nil
}

// Create adds a new record. NOT optimistic: the remote assigns the canonical
// id and applied_at, so nothing enters the snapshot until it confirms. The
// echoed record is inserted at its sorted position.
func (s *RecordStore) Create(ctx context.Context, draft dtos.ApplicationDraft) (models.ApplicationRecord, error) {
	const op = "create"
	if strings.TrimSpace(draft.Title) == "" {
		return models.ApplicationRecord{}, gateway.Validationf(op, "title is required")
	}
	if strings.TrimSpace(draft.Company) == "" {
		return models.ApplicationRecord{}, gateway.Validationf(op, "company is required")
	}
	if strings.TrimSpace(draft.ApplicationURL) == "" {
		return models.ApplicationRecord{}, gateway.Validationf(op, "application_url is required")
	}
	if draft.Status == "" {
		draft.Status = models.StatusApplied
	}
	if !models.ValidStatus(draft.Status) {
		return models.ApplicationRecord{}, gateway.Validationf(op, "invalid status %q", draft.Status)
	}
	if !models.ValidJobType(draft.JobType) {
		return models.ApplicationRecord{}, gateway.Validationf(op, "invalid job type %q", draft.JobType)
	}

	record, err := s.gateway.CreateApplication(ctx, draft)
	if err != nil {
		return models.ApplicationRecord{}, err
	}

	s.mu.Lock()
	at, _ := slices.BinarySearchFunc(s.records, record, compareRecords)
	s.records = slices.Insert(s.records, at, record)
	s.mu.Unlock()
	glog.V(1).Infof("[store]created %s (%s at %s)", record.ID, record.Title, record.Company)
	return record, nil
}

func applyPatch(record *models.ApplicationRecord, patch dtos.RecordPatch) {
	if patch.Title != nil {
		record.Title = *patch.Title
	}
	if patch.Company != nil {
		record.Company = *patch.Company
	}
	if patch.JobType != nil {
		record.JobType = *patch.JobType
	}
	if patch.Location != nil {
		record.Location = *patch.Location
	}
	if patch.ApplicationURL != nil {
		record.ApplicationURL = *patch.ApplicationURL
	}
	if patch.Description != nil {
		record.Description = *patch.Description
	}
	if patch.Status != nil {
		record.Status = *patch.Status
	}
	if patch.ResumeUsed != nil {
		record.ResumeUsed = *patch.ResumeUsed
	}
	if patch.ApplicationMethod != nil {
		record.ApplicationMethod = *patch.ApplicationMethod
	}
}
