package entities

// AccessTier is the ordered privilege level a profile holds on a project.
type AccessTier string

const (
	TierNone  AccessTier = "none"
	TierRead  AccessTier = "read"
	TierWrite AccessTier = "write"
	TierOwner AccessTier = "owner"
)

// Rank orders tiers for comparison: none < read < write < owner. Unknown
// names rank as none.
func (t AccessTier) Rank() int {
	switch t {
	case TierRead:
		return 1
	case TierWrite:
		return 2
	case TierOwner:
		return 3
	default:
		return 0
	}
}

// TierRow is a catalog entry. The catalog is store data, seeded at startup
// and lazily recreated on demand, not a compiled-in constant set.
type TierRow struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AccessGrant records that a profile holds a tier on a project. Ownership is
// tracked on the project row itself and never as a grant.
type AccessGrant struct {
	ID        int64 `json:"id"`
	ProfileID int64 `json:"profile_id"`
	ProjectID int64 `json:"project_id"`
	TierID    int64 `json:"tier_id"`
}
