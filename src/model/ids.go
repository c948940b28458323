package model

import "strconv"

// formatID renders a numeric primary key the way ledger records store
// account and order references.
func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
