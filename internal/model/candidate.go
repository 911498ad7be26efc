package model

import "time"

// Candidate is a stored applicant record. Optional fields encode as null when absent.
type Candidate struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           *string   `json:"phone"`
	Skills          *string   `json:"skills"`
	ExperienceYears *float64  `json:"experience_years"`
	Location        *string   `json:"location"`
	Availability    *bool     `json:"availability"`
	CreatedAt       time.Time `json:"created_at"`
}

// CandidateInput is the writable part of a candidate. Update replaces every field with it.
type CandidateInput struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           *string  `json:"phone"`
	Skills          *string  `json:"skills"`
	ExperienceYears *float64 `json:"experience_years"`
	Location        *string  `json:"location"`
	Availability    *bool    `json:"availability"`
}
