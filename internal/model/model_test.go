package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPasswordNeverSerialized(t *testing.T) {
	u := User{Username: "alice01", Email: "alice@x.com", Password: "$2a$10$hash", FirstName: "Alice", LastName: "Lee", Role: RoleEditor}

	raw, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "$2a$10$hash")

	raw, err = json.Marshal(u.PublicProfile())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.Contains(t, string(raw), `"fullName":"Alice Lee"`)
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, RoleEditor.Valid())
	assert.False(t, Role("owner").Valid())
	assert.True(t, CategoryMobileApps.Valid())
	assert.False(t, ProjectCategory("Games ").Valid())
	assert.True(t, ProjectArchived.Valid())
	assert.True(t, ContactInProgress.Valid())
	assert.False(t, ContactStatus("closed").Valid())
	assert.True(t, PriorityUrgent.Valid())
	assert.False(t, ContactPriority("critical").Valid())
}

func TestProjectImageURLs(t *testing.T) {
	p := Project{
		Image:  "/uploads/cover.png",
		Images: []string{"https://cdn.example.com/a.png", "/uploads/b.png"},
	}

	assert.Equal(t, "http://localhost:5000/uploads/cover.png", p.FullImageURL("http://localhost:5000/"))
	assert.Equal(t,
		[]string{"https://cdn.example.com/a.png", "http://localhost:5000/uploads/b.png"},
		p.FullImageURLs("http://localhost:5000"),
	)

	empty := Project{}
	assert.Equal(t, "", empty.FullImageURL("http://localhost:5000"))
	assert.Empty(t, empty.FullImageURLs("http://localhost:5000"))
}
