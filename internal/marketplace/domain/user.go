package domain

// UserRole is the account role of a viewer or poster.
type UserRole string

const (
	RoleSeller     UserRole = "seller"
	RoleBuyer      UserRole = "buyer"
	RoleWholesaler UserRole = "wholesaler"
	RoleAdmin      UserRole = "admin"
	RoleModerator  UserRole = "moderator"
	// RoleGuest is the empty role of an unauthenticated viewer.
	RoleGuest UserRole = ""
)

// NormalizeRole maps a stored value onto a known role; unknown values become seller.
func NormalizeRole(value string) UserRole {
	switch r := UserRole(value); r {
	case RoleSeller, RoleBuyer, RoleWholesaler, RoleAdmin, RoleModerator:
		return r
	}
	return RoleSeller
}

// PostingRoleFor returns the posting role an authenticated account posts under.
func PostingRoleFor(role UserRole) PostingRole {
	switch role {
	case RoleBuyer:
		return PostingRoleBuyer
	case RoleWholesaler:
		return PostingRoleWholesaler
	}
	return PostingRoleSeller
}

// UserProfile is the users/{uid} record written at registration.
type UserProfile struct {
	UID       string
	Email     string
	Role      UserRole
	CreatedAt int64
}
