package ledger

import "kharcha/internal/core"

// EnsureIDs repairs a loaded sequence in place: records lacking an id
// (written by legacy clients) and records whose id duplicates an
// earlier one get a freshly generated id. Returns whether anything was
// repaired, in which case the caller must re-persist.
func EnsureIDs(txs []core.Transaction, newID func() string) bool {
	seen := make(map[string]struct{}, len(txs))
	repaired := false
	for i := range txs {
		id := txs[i].ID
		if id == "" {
			repaired = true
			id = freshID(seen, newID)
			txs[i].ID = id
		} else if _, dup := seen[id]; dup {
			repaired = true
			id = freshID(seen, newID)
			txs[i].ID = id
		}
		seen[id] = struct{}{}
	}
	return repaired
}

func freshID(seen map[string]struct{}, newID func() string) string {
	for {
		id := newID()
		if _, taken := seen[id]; !taken && id != "" {
			return id
		}
	}
}
