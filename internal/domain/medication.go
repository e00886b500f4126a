package domain

import "time"

// User mirrors the Telegram account that talks to the bot.
// Rows are upserted on every interaction and never deleted.
type User struct {
	ID        int64 // Telegram chat/user id
	Username  string
	FirstName string
	LastName  string
	CreatedAt time.Time // UTC
}

// Medication is one reminder subject owned by a single user.
// Schedule holds the canonical form produced by ValidateSchedule:
// sorted, comma-joined "HH:MM" times, at most MaxScheduleTimes of them.
type Medication struct {
	ID        int64
	UserID    int64
	Name      string
	Dosage    string
	Schedule  string
	Active    bool
	CreatedAt time.Time // UTC
}

// Firing is one concrete instance of a reminder trigger going off.
// It is never persisted: it lives only inside the outgoing message's
// callback action until the user acknowledges it or a later firing for
// the same trigger supersedes it.
type Firing struct {
	UserID       int64
	MedicationID int64
	Name         string
	Dosage       string
	TimeStr      string // nominal time-of-day, "HH:MM"
	FiredAt      int64  // emission unix timestamp, basis for delay tiers
}
