package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActorFromClaims(t *testing.T) {
	actor, err := ActorFromClaims(&JWTClaims{UserID: "u1", Role: RoleMentor, ProfileID: "m1", Name: "Dr. Rao"})
	require.NoError(t, err)
	mentor, ok := actor.(MentorActor)
	require.True(t, ok)
	assert.Equal(t, "m1", mentor.MentorID)
	assert.Equal(t, "u1", mentor.UserID())
	assert.Equal(t, RoleMentor, mentor.Role())
	assert.Equal(t, "Dr. Rao", mentor.DisplayName())

	actor, err = ActorFromClaims(&JWTClaims{UserID: "u2", Role: RoleAdmin})
	require.NoError(t, err)
	assert.IsType(t, AdminActor{}, actor)

	actor, err = ActorFromClaims(&JWTClaims{UserID: "u3", Role: RoleParent, ProfileID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, "p1", actor.(ParentActor).ParentID)
}

func TestActorFromClaimsRejectsIncomplete(t *testing.T) {
	_, err := ActorFromClaims(&JWTClaims{UserID: "u1", Role: RoleStudent})
	assert.Error(t, err)

	_, err = ActorFromClaims(&JWTClaims{UserID: "u1", Role: "superuser", ProfileID: "x"})
	assert.Error(t, err)

	_, err = ActorFromClaims(nil)
	assert.Error(t, err)
}
