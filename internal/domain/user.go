package domain

// UserProfile holds the read-only seller/holder profile data surfaced next to
// listings. Profiles are static reference data; the engine never mutates them.
type UserProfile struct {
	Username          string
	Reputation        float64
	TotalTransactions int
	MemberSince       string
	Description       string
}
