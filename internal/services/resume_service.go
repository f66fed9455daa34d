package services

import (
	"context"
	"strings"

	"github.com/golang/glog"

	"github.com/careervault/vault/internal/gateway"
	"github.com/careervault/vault/internal/models"
)

// ResumeService wraps the remote resume operations for the session and keeps
// the signed-URL cache honest across deletions. Records referencing a
// deleted resume are intentionally left alone; the weak link surfaces as a
// broken preview.
type ResumeService struct {
	gateway gateway.SyncGateway
	urls    *SignedUrlCache
}

func NewResumeService(gw gateway.SyncGateway, urls *SignedUrlCache) *ResumeService {
	return &ResumeService{
		gateway: gw,
		urls:    urls,
	}
}

func (s *ResumeService) List(ctx context.Context) ([]models.Resume, error) {
	return s.gateway.FetchResumes(ctx)
}

// Upload sends a new resume to the remote store. PDF-only, checked before
// any remote call.
func (s *ResumeService) Upload(ctx context.Context, filename string, content []byte) (models.Resume, error) {
	const op = "upload-resume"
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return models.Resume{}, gateway.Validationf(op, "only PDF files allowed")
	}
	if len(content) == 0 {
		return models.Resume{}, gateway.Validationf(op, "empty file")
	}
	return s.gateway.UploadResume(ctx, filename, content)
}

// Delete removes a resume remotely and invalidates its cached preview URL so
// nothing stale can render after deletion.
func (s *ResumeService) Delete(ctx context.Context, resumeID string) error {
	if err := s.gateway.DeleteResume(ctx, resumeID); err != nil {
		return err
	}
	s.urls.Invalidate(resumeID)
	glog.V(1).Infof("[resumes]deleted %s, preview cache invalidated", resumeID)
	return nil
}

// Preview resolves the resume's current signed URL through the cache.
func (s *ResumeService) Preview(ctx context.Context, resumeID string) (string, error) {
	return s.urls.Resolve(ctx, resumeID)
}
