package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/careervault/vault/internal/dtos"
	"github.com/careervault/vault/internal/gateway"
	"github.com/careervault/vault/internal/models"
)

// fakeGateway is a scriptable SyncGateway. Unset hooks succeed with zero
// values; tests install hooks to fail, block, or record calls.
type fakeGateway struct {
	mu          sync.Mutex
	patchCalls  []patchCall
	deleteCalls []string
	createCalls int
	signedCalls map[string]int

	fetchFn  func() ([]models.ApplicationRecord, error)
	createFn func(draft dtos.ApplicationDraft) (models.ApplicationRecord, error)
	patchFn  func(id string, patch dtos.RecordPatch) error
	deleteFn func(id string) error
	signedFn func(resumeID string) (gateway.SignedURL, error)

	resumesFn      func() ([]models.Resume, error)
	deleteResumeFn func(resumeID string) error
	uploadFn       func(filename string, content []byte) (models.Resume, error)
}

type patchCall struct {
	id    string
	patch dtos.RecordPatch
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		signedCalls: map[string]int{},
	}
}

func (g *fakeGateway) FetchApplications(ctx context.Context) ([]models.ApplicationRecord, error) {
	if g.fetchFn != nil {
		return g.fetchFn()
	}
	return []models.ApplicationRecord{}, nil
}

func (g *fakeGateway) CreateApplication(ctx context.Context, draft dtos.ApplicationDraft) (models.ApplicationRecord, error) {
	g.mu.Lock()
	g.createCalls++
	g.mu.Unlock()
	if g.createFn != nil {
		return g.createFn(draft)
	}
	return models.ApplicationRecord{}, nil
}

func (g *fakeGateway) PatchApplication(ctx context.Context, id string, patch dtos.RecordPatch) error {
	g.mu.Lock()
	g.patchCalls = append(g.patchCalls, patchCall{id: id, patch: patch})
	g.mu.Unlock()
	if g.patchFn != nil {
		return g.patchFn(id, patch)
	}
	return nil
}

func (g *fakeGateway) DeleteApplication(ctx context.Context, id string) error {
	g.mu.Lock()
	g.deleteCalls = append(g.deleteCalls, id)
	g.mu.Unlock()
	if g.deleteFn != nil {
		return g.deleteFn(id)
	}
	return nil
}

func (g *fakeGateway) FetchResumes(ctx context.Context) ([]models.Resume, error) {
	if g.resumesFn != nil {
		return g.resumesFn()
	}
	return []models.Resume{}, nil
}

func (g *fakeGateway) SignedResumeURL(ctx context.Context, resumeID string) (gateway.SignedURL, error) {
	g.mu.Lock()
	g.signedCalls[resumeID]++
	n := g.signedCalls[resumeID]
	g.mu.Unlock()
	if g.signedFn != nil {
		return g.signedFn(resumeID)
	}
	return gateway.SignedURL{
		URL:       fmt.Sprintf("https://files.test/%s?sig=%d", resumeID, n),
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}, nil
}

func (g *fakeGateway) DeleteResume(ctx context.Context, resumeID string) error {
	if g.deleteResumeFn != nil {
		return g.deleteResumeFn(resumeID)
	}
	return nil
}

func (g *fakeGateway) UploadResume(ctx context.Context, filename string, content []byte) (models.Resume, error) {
	if g.uploadFn != nil {
		return g.uploadFn(filename, content)
	}
	return models.Resume{ID: "r-new", Filename: filename, UploadedAt: time.Now()}, nil
}

func (g *fakeGateway) ParseJobURL(ctx context.Context, url string) (gateway.ParsedJob, error) {
	return gateway.ParsedJob{}, nil
}

func (g *fakeGateway) VerifyIdentity(ctx context.Context, idToken string) (gateway.Identity, error) {
	return gateway.Identity{Email: "user@test"}, nil
}

func (g *fakeGateway) patchCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.patchCalls)
}

func (g *fakeGateway) signedCount(resumeID string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.signedCalls[resumeID]
}

func transientErr(op string) error {
	return &gateway.Error{Kind: gateway.KindTransient, Op: op, Status: 500, Err: errors.New("server error")}
}

func rejectedErr(op string) error {
	return &gateway.Error{Kind: gateway.KindRejected, Op: op, Status: 404, Err: errors.New("not found")}
}
