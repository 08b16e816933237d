package entity

// UnknownUserName is the sentinel display name used when user lookup
// fails. User-name resolution is best-effort everywhere.
const UnknownUserName = "Unknown User"

// User is a Slack user as returned by users.info.
type User struct {
	// ID is the user identifier (U...).
	ID string

	// Name is the short handle.
	Name string

	// RealName is the full display name.
	RealName string
}

// UnknownUser returns the synthetic record substituted when users.info
// fails for the given ID.
func UnknownUser(id string) *User {
	return &User{
		ID:       id,
		Name:     UnknownUserName,
		RealName: UnknownUserName,
	}
}

// DisplayName resolves through the fallback chain
// real name -> short name -> "Unknown User".
func (u *User) DisplayName() string {
	if u.RealName != "" {
		return u.RealName
	}
	if u.Name != "" {
		return u.Name
	}
	return UnknownUserName
}

// IsUnknown reports whether the record is the lookup-failure sentinel.
func (u *User) IsUnknown() bool {
	return u.DisplayName() == UnknownUserName
}
