package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" Librarian ")
	require.NoError(t, err)
	assert.Equal(t, RoleLibrarian, r)

	r, err = ParseRole("MEMBER")
	require.NoError(t, err)
	assert.Equal(t, RoleMember, r)

	_, err = ParseRole("admin")
	require.Error(t, err)
}

func TestRole_Capabilities(t *testing.T) {
	assert.True(t, RoleMember.CanBorrow())
	assert.False(t, RoleMember.CanManageCatalog())
	assert.False(t, RoleLibrarian.CanBorrow())
	assert.True(t, RoleLibrarian.CanManageCatalog())

	unknown := Role("guest")
	assert.False(t, unknown.Valid())
	assert.False(t, unknown.CanBorrow())
	assert.False(t, unknown.CanManageCatalog())
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "jane doe", Normalize("  Jane DOE\t"))
	assert.Equal(t, "", Normalize("   "))
}
