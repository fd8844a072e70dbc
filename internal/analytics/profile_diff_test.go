package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PUZZ-INC/puzzle/internal/domain"
)

func TestDiffProfilesMentionsOnlyChangedFields(t *testing.T) {
	old := domain.Profile{FirstName: "Al", LastName: "Smith", City: "Riga"}
	updated := domain.Profile{FirstName: "Alice", LastName: "Smith", City: "Riga"}

	changes := DiffProfiles(old, updated)
	require.Len(t, changes, 1)
	assert.Equal(t, "first_name", changes[0].Field)

	desc := changes.Describe()
	assert.Equal(t, "first_name: Alice", desc)
	assert.NotContains(t, desc, "last_name")
	assert.NotContains(t, desc, "city")
}

func TestDiffProfilesClearedField(t *testing.T) {
	old := domain.Profile{City: "Riga"}
	changes := DiffProfiles(old, domain.Profile{})

	require.Len(t, changes, 1)
	assert.True(t, changes[0].Cleared)
	assert.Equal(t, "city cleared", changes.Describe())
}

func TestDiffProfilesAvatarUsesFilename(t *testing.T) {
	changes := DiffProfiles(domain.Profile{}, domain.Profile{AvatarURL: "/media/avatars/pic.png"})
	require.Len(t, changes, 1)
	assert.Equal(t, "avatar uploaded: pic.png", changes.Describe())

	changes = DiffProfiles(domain.Profile{AvatarURL: "/media/avatars/pic.png"}, domain.Profile{})
	assert.Equal(t, "avatar removed", changes.Describe())
}

func TestDiffProfilesBirthDate(t *testing.T) {
	bd := time.Date(1990, 4, 15, 0, 0, 0, 0, time.UTC)
	changes := DiffProfiles(domain.Profile{}, domain.Profile{BirthDate: &bd})
	require.Len(t, changes, 1)
	assert.Equal(t, "birth_date: 1990-04-15", changes.Describe())
}

func TestDiffProfilesNoChanges(t *testing.T) {
	p := domain.Profile{FirstName: "Alice"}
	changes := DiffProfiles(p, p)
	assert.True(t, changes.Empty())
	assert.Equal(t, "profile updated", changes.Describe())
}

func TestDescribeJoinsMultipleChanges(t *testing.T) {
	changes := DiffProfiles(
		domain.Profile{},
		domain.Profile{FirstName: "Alice", City: "Riga"},
	)
	assert.Equal(t, "first_name: Alice • city: Riga", changes.Describe())
}
