package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/PUZZ-INC/puzzle/internal/domain"
)

// FieldChange captures one edited profile field. Value holds the new value;
// Cleared marks a field that was emptied.
type FieldChange struct {
	Field   string
	Value   string
	Cleared bool
}

// ProfileChanges lists edited fields in a stable order.
type ProfileChanges []FieldChange

// Empty reports whether no field actually changed.
func (c ProfileChanges) Empty() bool {
	return len(c) == 0
}

// Describe renders the change list as the profile_update event payload.
// Only changed fields appear; cleared fields get a distinct descriptor.
func (c ProfileChanges) Describe() string {
	if len(c) == 0 {
		return "profile updated"
	}
	parts := make([]string, 0, len(c))
	for _, ch := range c {
		switch {
		case ch.Field == "avatar" && ch.Cleared:
			parts = append(parts, "avatar removed")
		case ch.Field == "avatar":
			parts = append(parts, "avatar uploaded: "+ch.Value)
		case ch.Cleared:
			parts = append(parts, ch.Field+" cleared")
		default:
			parts = append(parts, fmt.Sprintf("%s: %s", ch.Field, ch.Value))
		}
	}
	return strings.Join(parts, " • ")
}

// DiffProfiles compares string-normalized old and new values field by field
// and returns only the fields that differ.
func DiffProfiles(old, updated domain.Profile) ProfileChanges {
	type field struct {
		name     string
		old, new string
	}
	fields := []field{
		{"first_name", old.FirstName, updated.FirstName},
		{"last_name", old.LastName, updated.LastName},
		{"bio", old.Bio, updated.Bio},
		{"phone", old.Phone, updated.Phone},
		{"city", old.City, updated.City},
		{"birth_date", formatBirthDate(old.BirthDate), formatBirthDate(updated.BirthDate)},
		{"avatar", avatarFilename(old.AvatarURL), avatarFilename(updated.AvatarURL)},
	}

	var changes ProfileChanges
	for _, f := range fields {
		if f.old == f.new {
			continue
		}
		changes = append(changes, FieldChange{
			Field:   f.name,
			Value:   f.new,
			Cleared: f.new == "",
		})
	}
	return changes
}

func formatBirthDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func avatarFilename(url string) string {
	if url == "" {
		return ""
	}
	if idx := strings.LastIndex(url, "/"); idx >= 0 {
		return url[idx+1:]
	}
	return url
}
