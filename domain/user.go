package domain

type UserID string

// User is an identity known to the directory. The id never changes and
// the display name is unique across the directory.
type User struct {
	ID          UserID
	DisplayName string
}
