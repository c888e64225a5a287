package domain

import (
	"slices"
	"time"
)

type RoomID string

// MemberSet is a hash set of user ids. Duplicates are impossible by construction.
type MemberSet map[UserID]struct{}

func NewMemberSet(ids ...UserID) MemberSet {
	set := make(MemberSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s MemberSet) Contains(id UserID) bool {
	_, ok := s[id]
	return ok
}

func (s MemberSet) Len() int { return len(s) }

// Slice returns the members sorted, so that callers get a stable view.
func (s MemberSet) Slice() []UserID {
	out := make([]UserID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (s MemberSet) Clone() MemberSet {
	out := make(MemberSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Room is a named channel with a fixed, non-empty member set.
// Members are never mutated after creation.
type Room struct {
	ID        RoomID
	Name      string
	Members   MemberSet
	CreatedAt time.Time
}

func (r Room) IsMember(id UserID) bool {
	return r.Members.Contains(id)
}
