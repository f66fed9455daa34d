package services

import (
	"slices"
	"strings"

	"github.com/careervault/vault/internal/dtos"
	"github.com/careervault/vault/internal/models"
)

// compareRecords is the canonical view order: applied_at descending, id
// ascending on ties so projections are deterministic.
func compareRecords(a, b models.ApplicationRecord) int {
	if c := b.AppliedAt.Compare(a.AppliedAt); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// Project derives the full view state from a snapshot and the active search
// query. Pure: no side effects, no network, O(n) per concern, safe to run on
// every keystroke.
func Project(snapshot []models.ApplicationRecord, query dtos.SearchQuery) models.ViewState {
	all := slices.Clone(snapshot)
	slices.SortFunc(all, compareRecords)

	return models.ViewState{
		All:        all,
		ByStatus:   GroupByStatus(all),
		Filtered:   Filter(all, query),
		Aggregates: Aggregate(all),
	}
}

// GroupByStatus partitions records into the four status buckets, preserving
// the input order. A record with an out-of-enum status is dropped from every
// bucket rather than crashing the projection.
func GroupByStatus(records []models.ApplicationRecord) map[string][]models.ApplicationRecord {
	buckets := make(map[string][]models.ApplicationRecord, len(models.Statuses))
	for _, status := range models.Statuses {
		buckets[status] = []models.ApplicationRecord{}
	}
	for _, record := range records {
		if _, ok := buckets[record.Status]; ok {
			buckets[record.Status] = append(buckets[record.Status], record)
		}
	}
	return buckets
}

// Filter keeps the records matching every provided sub-filter. Substring
// filters are case-insensitive; empty sub-filters match everything.
func Filter(records []models.ApplicationRecord, query dtos.SearchQuery) []models.ApplicationRecord {
	title := strings.ToLower(query.Title)
	company := strings.ToLower(query.Company)
	location := strings.ToLower(query.Location)

	matched := []models.ApplicationRecord{}
	for _, record := range records {
		if !strings.Contains(strings.ToLower(record.Title), title) {
			continue
		}
		if !strings.Contains(strings.ToLower(record.Company), company) {
			continue
		}
		if !strings.Contains(strings.ToLower(record.Location), location) {
			continue
		}
		if query.JobType != "" && record.JobType != query.JobType {
			continue
		}
		if query.Status != "" && record.Status != query.Status {
			continue
		}
		matched = append(matched, record)
	}
	return matched
}

// Aggregate counts the unfiltered collection by status and job type.
// Analytics reflects the whole vault, not the active search. Records without
// a job type count under the "Unknown" bucket.
func Aggregate(records []models.ApplicationRecord) models.Aggregates {
	agg := models.Aggregates{
		Total:         len(records),
		StatusCounts:  map[string]int{},
		JobTypeCounts: map[string]int{},
	}
	for _, record := range records {
		agg.StatusCounts[record.Status]++
		jobType := record.JobType
		if jobType == "" {
			jobType = models.JobTypeUnknown
		}
		agg.JobTypeCounts[jobType]++
	}
	return agg
}
