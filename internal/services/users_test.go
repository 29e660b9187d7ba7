package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophlibrary/internal/common"
	"github.com/dmitrijs2005/gophlibrary/internal/config"
	"github.com/dmitrijs2005/gophlibrary/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOrCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, created, err := env.users.ResolveOrCreate(ctx, "  Alice ", models.RoleMember)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "alice", u.Name)
	assert.Equal(t, models.RoleMember, u.Role)

	again, created, err := env.users.ResolveOrCreate(ctx, "ALICE", models.RoleMember)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, u.ID, again.ID)
}

func TestResolveOrCreate_RoleMismatchLeavesRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	dana := env.member(t, "Dana")

	_, _, err := env.users.ResolveOrCreate(ctx, "dana", models.RoleLibrarian)
	require.ErrorIs(t, err, common.ErrRoleMismatch)

	stored, err := env.users.GetUser(ctx, dana.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, stored.Role)
}

func TestResolveOrCreate_InvalidInput(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.users.ResolveOrCreate(context.Background(), "   ", models.RoleMember)
	require.ErrorIs(t, err, common.ErrInvalidInput)

	_, _, err = env.users.ResolveOrCreate(context.Background(), "zed", models.Role("admin"))
	require.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestSignIn(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.users.SignIn(ctx, "ghost", models.RoleMember)
	require.ErrorIs(t, err, common.ErrUserNotFound)

	env.member(t, "erin")

	_, err = env.users.SignIn(ctx, "Erin", models.RoleLibrarian)
	require.ErrorIs(t, err, common.ErrRoleMismatch)

	u, err := env.users.SignIn(ctx, " erin ", models.RoleMember)
	require.NoError(t, err)
	assert.Equal(t, "erin", u.Name)
}

func TestGetUser_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.users.GetUser(context.Background(), 404)
	require.ErrorIs(t, err, common.ErrUserNotFound)
}

func TestTerminateMembership_ReturnsOutstandingLoans(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	frank := env.member(t, "frank")
	dune := env.stock(t, "Dune", "Frank Herbert", 2)

	_, err := env.loans.Checkout(ctx, frank.ID, dune.ID)
	require.NoError(t, err)
	_, err = env.loans.Checkout(ctx, frank.ID, dune.ID)
	require.NoError(t, err)
	require.Equal(t, 0, env.qty(t, dune.ID))

	returned, err := env.users.TerminateMembership(ctx, frank.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, returned)

	assert.Equal(t, 2, env.qty(t, dune.ID))
	assert.Equal(t, 0, env.loanCount(t))

	_, err = env.users.GetUser(ctx, frank.ID)
	require.ErrorIs(t, err, common.ErrUserNotFound)

	_, err = env.users.TerminateMembership(ctx, frank.ID)
	require.ErrorIs(t, err, common.ErrUserNotFound)
}

func TestTerminateMembership_BlockedWithLoans(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.BlockTerminationWithLoans = true })
	ctx := context.Background()

	gina := env.member(t, "gina")
	emma := env.stock(t, "Emma", "Jane Austen", 1)
	_, err := env.loans.Checkout(ctx, gina.ID, emma.ID)
	require.NoError(t, err)

	_, err = env.users.TerminateMembership(ctx, gina.ID)
	require.ErrorIs(t, err, common.ErrLoansOutstanding)

	_, err = env.users.GetUser(ctx, gina.ID)
	require.NoError(t, err, "user survives a blocked termination")
	assert.Equal(t, 1, env.loanCount(t))

	require.NoError(t, env.loans.Return(ctx, gina.ID, emma.ID))
	returned, err := env.users.TerminateMembership(ctx, gina.ID)
	require.NoError(t, err)
	assert.Zero(t, returned)
}
