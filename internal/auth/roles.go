package auth

import "strings"

// adminKeywords are the role fragments that grant elevated permissions. The
// cargo column is free text, so membership is a case-insensitive substring
// match against this set.
var adminKeywords = []string{"admin", "administrador", "gerente", "supervisor"}

// IsAdminLike reports whether the given cargo carries administrative
// privileges.
func IsAdminLike(role string) bool {
	lowered := strings.ToLower(role)
	for _, keyword := range adminKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

// Capabilities is the permission set derived from a user's cargo. Call sites
// consult capabilities rather than re-matching role strings.
type Capabilities struct {
	ManageAnyTicket  bool
	DeleteTickets    bool
	ModerateComments bool
	ManageUsers      bool
}

// CapabilitiesFor maps a cargo onto its capability set. Admin-like roles hold
// every capability; everyone else holds none beyond ownership rules enforced
// by the services.
func CapabilitiesFor(role string) Capabilities {
	if IsAdminLike(role) {
		return Capabilities{
			ManageAnyTicket:  true,
			DeleteTickets:    true,
			ModerateComments: true,
			ManageUsers:      true,
		}
	}
	return Capabilities{}
}
