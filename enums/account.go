package enums

type AccountStatus string

const (
	AccountStatusInvalid  AccountStatus = ""
	AccountStatusActive   AccountStatus = "active"
	AccountStatusPaused   AccountStatus = "paused"
	AccountStatusCooldown AccountStatus = "cooldown"
	AccountStatusFlagged  AccountStatus = "flagged"
)

// ParseAccountStatus returns AccountStatusInvalid for anything outside the fixed set.
func ParseAccountStatus(s string) AccountStatus {
	switch AccountStatus(s) {
	case AccountStatusActive, AccountStatusPaused, AccountStatusCooldown, AccountStatusFlagged:
		return AccountStatus(s)
	}
	return AccountStatusInvalid
}
