package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Role
		wantErr bool
	}{
		{"viewer", "Viewer", RoleViewer, false},
		{"lower case", "contributor", RoleContributor, false},
		{"upper case", "MANAGER", RoleManager, false},
		{"padded", " admin ", RoleAdmin, false},
		{"unknown", "superuser", RoleViewer, true},
		{"empty", "", RoleViewer, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseRole(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRole)
				assert.False(t, IsValidRole(tt.input))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, IsValidRole(tt.input))
		})
	}
}

func TestHasPermission_AllPairs(t *testing.T) {
	t.Parallel()

	roles := []Role{RoleViewer, RoleContributor, RoleManager, RoleAdmin}

	for _, u := range roles {
		for _, r := range roles {
			assert.Equal(t, int(u) >= int(r), HasPermission(u.String(), r.String()), "%s vs %s", u, r)
			assert.Equal(t, int(u) >= int(r), u.AtLeast(r))
		}
	}
}

func TestHasPermission_UnknownRole(t *testing.T) {
	t.Parallel()

	assert.False(t, HasPermission("root", "Viewer"))
	assert.False(t, HasPermission("Admin", "root"))
}

func TestRole_JSON(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(User{ID: "u1", Role: RoleManager})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"role":"Manager"`)

	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":"u2","role":"admin"}`), &u))
	assert.Equal(t, RoleAdmin, u.Role)

	err = json.Unmarshal([]byte(`{"id":"u3","role":"owner"}`), &u)
	assert.ErrorIs(t, err, ErrInvalidRole)
}
