package feed

import (
	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/domain"
)

// VisibleAds returns the ads a viewer with the given account role may see.
//
// Guests, admins and moderators see everything. Otherwise each role sees the
// counterpart postings, and showAll widens the view:
//
//	viewer       showAll=false   showAll=true
//	seller       buyer           buyer, seller
//	buyer        seller          buyer, seller
//	wholesaler   buyer           buyer, wholesaler
//
// Sellers never see wholesaler ads, even with showAll on. Kept as is pending
// product confirmation.
func VisibleAds(ads []domain.Ad, viewer domain.UserRole, showAll bool) []domain.Ad {
	allowed := visiblePostingRoles(viewer, showAll)
	if allowed == nil {
		out := make([]domain.Ad, len(ads))
		copy(out, ads)
		return out
	}

	out := make([]domain.Ad, 0, len(ads))
	for _, ad := range ads {
		if allowed[ad.EffectivePostingRole()] {
			out = append(out, ad)
		}
	}
	return out
}

// visiblePostingRoles returns nil when every posting role is visible.
func visiblePostingRoles(viewer domain.UserRole, showAll bool) map[domain.PostingRole]bool {
	switch viewer {
	case domain.RoleGuest, domain.RoleAdmin, domain.RoleModerator:
		return nil
	}

	if !showAll {
		switch viewer {
		case domain.RoleSeller, domain.RoleWholesaler:
			return map[domain.PostingRole]bool{domain.PostingRoleBuyer: true}
		case domain.RoleBuyer:
			return map[domain.PostingRole]bool{domain.PostingRoleSeller: true}
		}
		return nil
	}

	switch viewer {
	case domain.RoleSeller, domain.RoleBuyer:
		return map[domain.PostingRole]bool{domain.PostingRoleBuyer: true, domain.PostingRoleSeller: true}
	case domain.RoleWholesaler:
		return map[domain.PostingRole]bool{domain.PostingRoleBuyer: true, domain.PostingRoleWholesaler: true}
	}
	return nil
}
