package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFriendRequestStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    FriendRequestStatus
		wantErr bool
	}{
		{"ACCEPTED", FriendRequestAccepted, false},
		{" rejected ", FriendRequestRejected, false},
		{"Pending", FriendRequestPending, false},
		{"ACCEPT", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFriendRequestStatus(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseInviteStatus(t *testing.T) {
	got, err := ParseInviteStatus("rejected")
	assert.NoError(t, err)
	assert.Equal(t, InviteRejected, got)

	_, err = ParseInviteStatus("DISMISSED")
	assert.Error(t, err)
}

func TestFriendRequest_OtherParty(t *testing.T) {
	r := &FriendRequest{SenderID: 1, ReceiverID: 2}
	assert.Equal(t, uint(2), r.OtherParty(1))
	assert.Equal(t, uint(1), r.OtherParty(2))
}
