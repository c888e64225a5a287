package domain

import (
	"chat-rooms/errors"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestMemberSet_Deduplicates(t *testing.T) {
	req := require.New(t)

	set := NewMemberSet("alice", "bob", "alice")

	req.Equal(2, set.Len())
	req.True(set.Contains("alice"))
	req.False(set.Contains("clara"))
	req.Equal([]UserID{"alice", "bob"}, set.Slice())
}

func TestMemberSet_Clone_IsIndependent(t *testing.T) {
	req := require.New(t)
	set := NewMemberSet("alice")

	clone := set.Clone()
	clone["bob"] = struct{}{}

	req.Equal(1, set.Len())
	req.Equal(2, clone.Len())
}

func TestMessage_HasPayload(t *testing.T) {
	tests := []struct {
		name    string
		message Message
		want    bool
	}{
		{name: "text only", message: Message{Content: "hi"}, want: true},
		{name: "attachment only", message: Message{AttachmentRef: lo.ToPtr("/uploads/a.png")}, want: true},
		{name: "blank text", message: Message{Content: "   "}, want: false},
		{name: "empty reference", message: Message{AttachmentRef: lo.ToPtr("")}, want: false},
		{name: "nothing", message: Message{}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.message.HasPayload())
		})
	}
}

func TestSendMessageCommand_HasPayload_EmptyAttachment(t *testing.T) {
	req := require.New(t)

	cmd := SendMessageCommand{Content: " ", Attachment: &Attachment{Filename: "a.png"}}
	req.False(cmd.HasPayload())

	cmd.Attachment.Data = []byte{0x1}
	req.True(cmd.HasPayload())
}

func TestCreateRoomCommand_Normalize(t *testing.T) {
	req := require.New(t)

	cmd := CreateRoomCommand{
		Name:    "  General  ",
		Members: []UserID{"alice", " ", "bob", "alice ", ""},
	}.Normalize()

	req.Equal("General", cmd.Name)
	req.Equal([]UserID{"alice", "bob"}, cmd.Members)
}

func TestValidate_CreateRoomCommand(t *testing.T) {
	req := require.New(t)

	err := Validate("CreateRoom", CreateRoomCommand{Name: "", Members: nil})
	req.ErrorIs(err, errors.ErrValidation)
	req.Contains(err.Error(), "Name")

	err = Validate("CreateRoom", CreateRoomCommand{Name: "General", Members: []UserID{}})
	req.ErrorIs(err, errors.ErrValidation)

	req.NoError(Validate("CreateRoom", CreateRoomCommand{Name: "General", Members: []UserID{"alice"}}))
}
