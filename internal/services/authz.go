package services

import "eventease/internal/domain"

// Role capabilities known to the client.
const (
	CapabilityOrganizer   = "organizer"
	CapabilityParticipant = "participant"
)

// CanAccess reports whether identity holds the given capability. It is pure
// and fail-closed: an absent identity or an absent or empty role set grants
// nothing. The same predicate gates protected views and conditional remote
// calls, so the client never fetches data the authorization model disallows.
func CanAccess(identity *domain.Identity, capability string) bool {
	if identity == nil {
		return false
	}
	for _, role := range identity.Roles {
		if role == capability {
			return true
		}
	}
	return false
}

// HomeRoute returns the landing path for an identity: organizers land on
// their dashboard, everyone else on the public listing.
func HomeRoute(identity *domain.Identity) string {
	if CanAccess(identity, CapabilityOrganizer) {
		return "/dashboard"
	}
	return "/"
}
