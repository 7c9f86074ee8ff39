package models

import "time"

// Status is the lifecycle state of a license. It defaults to issued at
// creation; nothing in these services transitions it afterwards.
type Status string

const (
	StatusIssued    Status = "issued"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusIssued, StatusExpired, StatusCancelled:
		return true
	}
	return false
}

// License is a medical license record. Folio is globally unique and
// immutable once created; CreatedAt is server-assigned.
type License struct {
	Folio     string    `bson:"folio" json:"folio"`
	PatientID string    `bson:"patientId" json:"patientId"`
	DoctorID  string    `bson:"doctorId" json:"doctorId"`
	Diagnosis string    `bson:"diagnosis" json:"diagnosis"`
	StartDate time.Time `bson:"startDate" json:"startDate"`
	Days      int       `bson:"days" json:"days"`
	Status    Status    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Verification is the outcome of a license verification. Found distinguishes
// "no such folio" from "folio exists but is not issued" for the HTTP layer;
// callers only ever see Valid.
type Verification struct {
	Valid bool `json:"valid"`
	Found bool `json:"-"`
}
