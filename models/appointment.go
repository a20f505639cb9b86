package models

import "time"

// Appointment is a confirmed, slot-occupying booking. At most one appointment
// may exist per (date, time) pair; the appointments repository enforces this
// with a unique index and a transactional re-check on every write.
type Appointment struct {
	ID        string    `bson:"id" json:"id"`
	Title     string    `bson:"title" json:"title"` // service display name, denormalized
	Client    string    `bson:"client" json:"client"`
	Phone     string    `bson:"phone" json:"phone"`
	Date      Date      `bson:"date" json:"date"`
	Time      string    `bson:"time" json:"time"` // "HH:MM" slot label
	Public    bool      `bson:"public" json:"public"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Sanitized strips the client's personal details for non-admin viewers, who
// only need to know the slot is taken.
func (a Appointment) Sanitized() Appointment {
	a.Client = ""
	a.Phone = ""
	return a
}
