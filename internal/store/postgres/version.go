package postgres

import (
	"strconv"
	"strings"
)

// moduleVersion extracts the numeric version from a module id such as
// "mod-audit-2.1.0" or "mod-audit-2.1.0-SNAPSHOT.42".
func moduleVersion(moduleID string) ([]int, bool) {
	start := -1
	for i := 0; i+1 < len(moduleID); i++ {
		if moduleID[i] == '-' && moduleID[i+1] >= '0' && moduleID[i+1] <= '9' {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil, false
	}
	core, _, _ := strings.Cut(moduleID[start:], "-")
	parts := strings.Split(core, ".")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}

// isDowngrade reports whether moving from one module id to another lowers
// the version. Unparseable or missing ids never count as a downgrade.
func isDowngrade(from, to string) bool {
	fv, ok := moduleVersion(from)
	if !ok {
		return false
	}
	tv, ok := moduleVersion(to)
	if !ok {
		return false
	}
	for i := 0; i < len(fv) || i < len(tv); i++ {
		var a, b int
		if i < len(fv) {
			a = fv[i]
		}
		if i < len(tv) {
			b = tv[i]
		}
		if a != b {
			return b < a
		}
	}
	return false
}
