package model

import "time"

// CandidateStatus represents where a referred candidate is in the hiring flow.
type CandidateStatus string

const (
	CandidateStatusPending  CandidateStatus = "Pending"
	CandidateStatusReviewed CandidateStatus = "Reviewed"
	CandidateStatusHired    CandidateStatus = "Hired"
)

// CandidateStatuses lists every valid status in display order.
var CandidateStatuses = []CandidateStatus{
	CandidateStatusPending,
	CandidateStatusReviewed,
	CandidateStatusHired,
}

// IsValid reports whether s is one of the known statuses.
func (s CandidateStatus) IsValid() bool {
	for _, known := range CandidateStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Candidate represents a job candidate referred by a user.
type Candidate struct {
	ID         string          `json:"id" bson:"id" gorm:"type:char(36);primaryKey"`
	Name       string          `json:"name" bson:"name" gorm:"size:255;not null;index"`
	Email      string          `json:"email" bson:"email" gorm:"size:255;not null"`
	Phone      string          `json:"phone" bson:"phone" gorm:"size:32;not null"`
	JobTitle   string          `json:"job_title" bson:"job_title" gorm:"size:255;not null;index"`
	Status     CandidateStatus `json:"status" bson:"status" gorm:"type:varchar(20);not null;default:'Pending';index"`
	ResumeURL  *string         `json:"resume_url" bson:"resume_url,omitempty" gorm:"size:1024"`
	ReferredBy string          `json:"referred_by" bson:"referred_by" gorm:"type:char(36);not null;index"`
	CreatedAt  time.Time       `json:"created_at" bson:"created_at" gorm:"index"`
}

// CandidateFilter narrows a candidate listing. Zero values mean "no filter".
type CandidateFilter struct {
	// Search matches name or job title, case-insensitively, as a substring.
	Search string
	// Status matches exactly. Unknown values simply match nothing.
	Status string
}
