package dtos

// ApplicationDraft is the input to the create flow. Validation happens in the
// record store so programmatic callers get the same classified errors as the
// HTTP surface.
type ApplicationDraft struct {
	Title             string `json:"title"`
	Company           string `json:"company"`
	JobType           string `json:"job_type"`
	Location          string `json:"location"`
	ApplicationURL    string `json:"application_url"`
	Description       string `json:"description"`
	Status            string `json:"status"` // Defaults to "Applied" if empty
	ResumeUsed        string `json:"resume_used"`
	ApplicationMethod string `json:"application_method"`
}

// RecordPatch is a partial update. Nil fields are left untouched, both
// locally and on the wire.
type RecordPatch struct {
	Title             *string `json:"title,omitempty"`
	Company           *string `json:"company,omitempty"`
	JobType           *string `json:"job_type,omitempty"`
	Location          *string `json:"location,omitempty"`
	ApplicationURL    *string `json:"application_url,omitempty"`
	Description       *string `json:"description,omitempty"`
	Status            *string `json:"status,omitempty"`
	ResumeUsed        *string `json:"resume_used,omitempty"`
	ApplicationMethod *string `json:"application_method,omitempty"`
}

// IsEmpty reports whether the patch would change nothing.
func (p RecordPatch) IsEmpty() bool {
	return p.Title == nil && p.Company == nil && p.JobType == nil &&
		p.Location == nil && p.ApplicationURL == nil && p.Description == nil &&
		p.Status == nil && p.ResumeUsed == nil && p.ApplicationMethod == nil
}

// SearchQuery holds up to five independent sub-filters combined with AND.
// Empty fields match everything.
type SearchQuery struct {
	Title    string `form:"title" json:"title"`
	Company  string `form:"company" json:"company"`
	Location string `form:"location" json:"location"`
	JobType  string `form:"job_type" json:"job_type"`
	Status   string `form:"status" json:"status"`
}

type StatusChangeRequest struct {
	Status string `json:"status"`
}

type ParseURLRequest struct {
	URL string `json:"url"`
}
