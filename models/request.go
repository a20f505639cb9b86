package models

import "time"

// RequestStatus is the lifecycle state of a booking request. Transitions are
// one-way: pending -> approved or pending -> rejected, nothing else.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// Terminal reports whether the status admits no further transitions.
func (s RequestStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// BookingRequest is a client-submitted proposal for a slot. It does not
// occupy the slot: conflicts are resolved at approval time, so several
// pending requests may target the same (date, time).
type BookingRequest struct {
	ID        string        `bson:"id" json:"id"`
	Title     string        `bson:"title" json:"title"` // service display name
	Client    string        `bson:"client" json:"client"`
	Phone     string        `bson:"phone" json:"phone"`
	Date      Date          `bson:"date" json:"date"`
	Time      string        `bson:"time" json:"time"`
	Status    RequestStatus `bson:"status" json:"status"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updated_at"`
}
