// Package services holds pure access-decision rules shared by application
// code and tests.
package services

import "carbono/contexts/account-core/project-service/domain/entities"

// CanRead permits any tier above none.
func CanRead(tier entities.AccessTier) bool {
	return tier.Rank() > entities.TierNone.Rank()
}

// CanUpdate requires write or owner.
func CanUpdate(tier entities.AccessTier) bool {
	return tier.Rank() >= entities.TierWrite.Rank()
}

// CanDelete requires ownership strictly; an explicit write grant is not
// enough to destroy a project.
func CanDelete(tier entities.AccessTier) bool {
	return tier == entities.TierOwner
}

// TierFromName maps a catalog row name to a tier. Unrecognized names degrade
// to none so that a corrupted catalog row can never widen access.
func TierFromName(name string) entities.AccessTier {
	switch entities.AccessTier(name) {
	case entities.TierRead, entities.TierWrite, entities.TierOwner:
		return entities.AccessTier(name)
	default:
		return entities.TierNone
	}
}

// GrantableTiers lists the tier names an explicit grant may carry.
func GrantableTiers() []entities.AccessTier {
	return []entities.AccessTier{entities.TierRead, entities.TierWrite, entities.TierOwner}
}
