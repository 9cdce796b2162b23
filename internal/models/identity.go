package models

import "strings"

// Identity is the resolved display identity surfaced wherever a user is
// shown (messages, members, friends, DM headers).
type Identity struct {
	UserID       string         `json:"userId"`
	Name         string         `json:"name"`
	Username     string         `json:"username"`
	AvatarURL    string         `json:"avatarUrl,omitempty"`
	Status       PresenceStatus `json:"status"`
	CustomStatus string         `json:"customStatus,omitempty"`
}

// ResolveIdentity derives the display identity for a user with the fallback
// chain profile -> account -> synthesized defaults. Every call site shares
// this one function so the chain cannot drift. Defaults are never persisted.
//
// fallbackStatus is the status reported when the profile carries none:
// "online" on most surfaces, "offline" on the friends list.
func ResolveIdentity(user *User, profile *Profile, fallbackStatus PresenceStatus) Identity {
	id := Identity{Status: fallbackStatus}
	if id.Status == "" {
		id.Status = StatusOnline
	}

	if user != nil {
		id.UserID = user.ID
		id.Username = emailLocalPart(user.Email)
		id.Name = firstNonEmpty(user.Name, user.Email)
	}
	if id.Username == "" {
		id.Username = "user"
	}
	if id.Name == "" {
		id.Name = "Anonymous"
	}

	if profile != nil {
		if profile.Username != "" {
			id.Username = profile.Username
		}
		id.Name = firstNonEmpty(profile.DisplayName, profile.Username, id.Name)
		id.AvatarURL = profile.AvatarURL
		if profile.Status != "" {
			id.Status = profile.Status
		}
		id.CustomStatus = profile.CustomStatus
	}

	return id
}

func emailLocalPart(email string) string {
	if email == "" {
		return ""
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
