package gateway

import (
	"context"
	"time"

	"github.com/careervault/vault/internal/dtos"
	"github.com/careervault/vault/internal/models"
)

// SignedURL is a time-limited, authorization-bearing link to a stored file.
type SignedURL struct {
	URL       string
	ExpiresAt time.Time
}

// Identity is the verified profile for the current session. Issuance and
// verification belong to the identity provider and the backend; this is just
// the echo the session keeps.
type Identity struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// ParsedJob is a best-effort extraction from a job posting URL. Absent
// fields are empty strings, not errors.
type ParsedJob struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	JobType     string `json:"job_type"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// SyncGateway abstracts the remote vault the session syncs against. Every
// call is made on behalf of the session's verified identity. Implementations
// return *Error so callers can branch on classification.
type SyncGateway interface {
	FetchApplications(ctx context.Context) ([]models.ApplicationRecord, error)
	CreateApplication(ctx context.Context, draft dtos.ApplicationDraft) (models.ApplicationRecord, error)
	PatchApplication(ctx context.Context, id string, patch dtos.RecordPatch) error
	DeleteApplication(ctx context.Context, id string) error

	FetchResumes(ctx context.Context) ([]models.Resume, error)
	SignedResumeURL(ctx context.Context, resumeID string) (SignedURL, error)
	DeleteResume(ctx context.Context, resumeID string) error
	UploadResume(ctx context.Context, filename string, content []byte) (models.Resume, error)

	ParseJobURL(ctx context.Context, url string) (ParsedJob, error)
	VerifyIdentity(ctx context.Context, idToken string) (Identity, error)
}
