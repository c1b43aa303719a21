package models

import (
	"time"
)

type EnrollmentStatus string

const (
	StatusActive   EnrollmentStatus = "ACTIVE"
	StatusInactive EnrollmentStatus = "INACTIVE"
	StatusRemoved  EnrollmentStatus = "REMOVED"
)

type Ownership string

// OwnershipBYOD is the only ownership category this service enrolls devices under.
const OwnershipBYOD Ownership = "BYOD"

// DeviceIdentifier addresses a device inside its device-type namespace.
type DeviceIdentifier struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type EnrollmentInfo struct {
	Owner         string           `json:"owner"`
	Status        EnrollmentStatus `json:"status"`
	Ownership     Ownership        `json:"ownership"`
	EnrolledAt    time.Time        `json:"enrolled_at"`
	LastUpdatedAt time.Time        `json:"last_updated_at"`
}

type Device struct {
	ID         string         `json:"device_identifier"`
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Enrollment EnrollmentInfo `json:"enrolment_info"`
}

func (d *Device) Identifier() DeviceIdentifier {
	return DeviceIdentifier{ID: d.ID, Type: d.Type}
}

func (d *Device) IsActive() bool {
	return d.Enrollment.Status == StatusActive
}
