package enums

// TriageSet names one of the persisted per-post user decisions.
type TriageSet string

const (
	TriageFlagged TriageSet = "flagged"
	TriageEngaged TriageSet = "engaged"
	TriageIgnored TriageSet = "ignored"
)

// TriageSets lists the sets in merge priority order.
var TriageSets = []TriageSet{TriageFlagged, TriageEngaged, TriageIgnored}

// Table returns the backing table name. Only the fixed sets above are valid.
func (s TriageSet) Table() string {
	switch s {
	case TriageFlagged:
		return "flagged_posts"
	case TriageEngaged:
		return "engaged_posts"
	case TriageIgnored:
		return "ignored_posts"
	}
	return ""
}
