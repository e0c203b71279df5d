package audit

import (
	"fmt"
	"strings"
)

// DumpString renders the still-live allocations as a fixed-width table,
// one line per object. Returns "" when the ledger is clean.
func (l *Ledger) DumpString() string {
	live := l.Live()
	if len(live) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-6s %-16s %6s %8s %8s\n", "id", "label", "rc", "retains", "releases"))
	for _, rec := range live {
		sb.WriteString(fmt.Sprintf("%-6d %-16s %6d %8d %8d\n",
			rec.ID, rec.Label, rec.RC, rec.Retains, rec.Releases))
	}
	return sb.String()
}
