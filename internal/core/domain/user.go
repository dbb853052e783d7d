package domain

import "time"

// User mirrors the persisted representation in the users table. The id is
// assigned once at creation and never changes; Created is immutable while
// Modified moves on every successful mutation.
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	Token     string
	IsActive  bool
	Created   time.Time
	Modified  time.Time
	LastLogin time.Time
	Phones    []Phone
}

// Phone is a contact number owned exclusively by one user. It has no
// independent lifecycle: deleting the user deletes its phones.
type Phone struct {
	Number      string
	CityCode    string
	CountryCode string
}
