package models

import "time"

// Statuses a tracked application moves through. These are the only valid
// values; the store rejects anything else before it touches the network.
const (
	StatusApplied   = "Applied"
	StatusInterview = "Interview"
	StatusOffer     = "Offer"
	StatusRejected  = "Rejected"
)

// Statuses lists the valid status values in board order.
var Statuses = []string{StatusApplied, StatusInterview, StatusOffer, StatusRejected}

const (
	JobTypeInternship = "Internship"
	JobTypeFullTime   = "Full-Time"
	JobTypePartTime   = "Part-Time"
	JobTypeContract   = "Contract"
)

// JobTypes lists the valid job type values. An empty job type means unset.
var JobTypes = []string{JobTypeInternship, JobTypeFullTime, JobTypePartTime, JobTypeContract}

// JobTypeUnknown is the aggregation bucket for records with no job type.
const JobTypeUnknown = "Unknown"

func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// ValidJobType accepts the empty string: job type is optional on a record.
func ValidJobType(s string) bool {
	if s == "" {
		return true
	}
	for _, v := range JobTypes {
		if s == v {
			return true
		}
	}
	return false
}

// ApplicationRecord is one tracked job application. The ID and AppliedAt are
// assigned by the remote vault at creation and never change after that.
type ApplicationRecord struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Company           string    `json:"company"`
	JobType           string    `json:"job_type"`
	Location          string    `json:"location"`
	ApplicationURL    string    `json:"application_url"`
	Description       string    `json:"description"`
	Status            string    `json:"status"`
	ResumeUsed        string    `json:"resume_used,omitempty"`
	ApplicationMethod string    `json:"application_method"`
	AppliedAt         time.Time `json:"applied_at"`
}

// Resume is an uploaded resume owned by the user. Deleting a resume does not
// cascade into records that reference it; a dangling ResumeUsed shows up as a
// broken preview, not a data error.
type Resume struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Aggregates are whole-collection counts; they ignore the active search so
// analytics always reflects the full vault.
type Aggregates struct {
	Total         int            `json:"total"`
	StatusCounts  map[string]int `json:"status_counts"`
	JobTypeCounts map[string]int `json:"job_type_counts"`
}

// ViewState is derived, never stored: recomputed from the current snapshot
// and search query on every change.
type ViewState struct {
	All        []ApplicationRecord            `json:"all"`
	ByStatus   map[string][]ApplicationRecord `json:"by_status"`
	Filtered   []ApplicationRecord            `json:"filtered"`
	Aggregates Aggregates                     `json:"aggregates"`
}
