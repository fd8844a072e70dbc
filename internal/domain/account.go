package domain

import "time"

// Account is the domain model for registered players.
type Account struct {
	ID           int64
	Handle       string
	PasswordHash string
	Email        string
	FirstName    string
	LastName     string
	Bio          string
	Phone        string
	City         string
	BirthDate    *time.Time
	AvatarURL    string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile holds the editable subset of an account.
type Profile struct {
	FirstName string
	LastName  string
	Bio       string
	Phone     string
	City      string
	BirthDate *time.Time
	AvatarURL string
}

// ApplyProfile overwrites the editable fields from p.
func (a *Account) ApplyProfile(p Profile) {
	a.FirstName = p.FirstName
	a.LastName = p.LastName
	a.Bio = p.Bio
	a.Phone = p.Phone
	a.City = p.City
	a.BirthDate = p.BirthDate
	a.AvatarURL = p.AvatarURL
}

// ProfileOf extracts the editable fields of the account.
func (a *Account) ProfileOf() Profile {
	return Profile{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Bio:       a.Bio,
		Phone:     a.Phone,
		City:      a.City,
		BirthDate: a.BirthDate,
		AvatarURL: a.AvatarURL,
	}
}
