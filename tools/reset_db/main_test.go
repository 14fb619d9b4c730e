package main

import (
	"testing"

	"lobby-server/internal/model"
	"lobby-server/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClearTables(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	amy := testutil.CreateUser(t, gdb, "amy", 0)
	bob := testutil.CreateUser(t, gdb, "bob", 0)
	testutil.CreateFriendRequest(t, gdb, amy.ID, bob.ID, model.FriendRequestPending)
	testutil.CreateInvite(t, gdb, "amy", "bob", model.InviteSent)

	results, err := clearTables(gdb)
	require.NoError(t, err)
	assert.Equal(t, []clearResult{
		{table: "invite", rows: 1},
		{table: "friendrequest", rows: 1},
		{table: "user", rows: 2},
	}, results)

	for _, m := range resetModels {
		var count int64
		require.NoError(t, gdb.Model(m).Count(&count).Error)
		assert.Zero(t, count)
	}
}
