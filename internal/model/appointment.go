package model

import (
	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// ValidStatus reports whether s is one of the allowed statuses.
func ValidStatus(s AppointmentStatus) bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// Appointment is a ledger entry for a booked slot.
//
// DoctorName and Department are snapshots taken at booking time and are
// intentionally not kept in sync with later doctor edits. Date is a bare
// calendar day ("YYYY-MM-DD") and Time the chosen slot start ("HH:MM");
// the pair is compared by exact equality everywhere.
type Appointment struct {
	Base
	DoctorID   uuid.UUID         `json:"doctor_id" db:"doctor_id"`
	PatientID  uuid.UUID         `json:"patient_id" db:"patient_id"`
	DoctorName string            `json:"doctor_name" db:"doctor_name"`
	Department string            `json:"department" db:"department"`
	Date       string            `json:"date" db:"date"`
	Time       string            `json:"time" db:"time"`
	Symptoms   string            `json:"symptoms" db:"symptoms"`
	Status     AppointmentStatus `json:"status" db:"status"`
	Notes      string            `json:"notes" db:"notes"`
}

type CreateAppointmentRequest struct {
	DoctorID   uuid.UUID `json:"doctorId" binding:"required"`
	Date       string    `json:"date" binding:"required,datetime=2006-01-02"`
	Time       string    `json:"time" binding:"required,hhmm"`
	Symptoms   string    `json:"symptoms" binding:"required"`
	Department string    `json:"department" binding:"required"`
}

type UpdateStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required"`
}

type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

// AppointmentFilters are optional list constraints combined with AND
// semantics. Zero values mean "not set".
type AppointmentFilters struct {
	DoctorID    uuid.UUID         `form:"-"`
	PatientID   uuid.UUID         `form:"-"`
	Date        string            `form:"date"`
	Time        string            `form:"time"`
	Status      AppointmentStatus `form:"status"`
	DoctorName  string            `form:"doctorName"`
	PatientName string            `form:"patientName"`
}

// AdminStats is the aggregate view for the admin dashboard.
type AdminStats struct {
	TotalPatients      int                       `json:"totalPatients"`
	TotalDoctors       int                       `json:"totalDoctors"`
	TotalAppointments  int                       `json:"totalAppointments"`
	TodayAppointments  int                       `json:"todayAppointments"`
	StatusCounts       map[AppointmentStatus]int `json:"statusCounts"`
	RecentAppointments []*Appointment            `json:"recentAppointments"`
}

// DoctorDashboard summarizes a doctor's ledger.
type DoctorDashboard struct {
	TotalAppointments     int `json:"totalAppointments"`
	PendingAppointments   int `json:"pendingAppointments"`
	CompletedAppointments int `json:"completedAppointments"`
	CancelledAppointments int `json:"cancelledAppointments"`
	TodayAppointments     int `json:"todayAppointments"`
}
