package persistence

import "strconv"

func itoa(n int) string {
	return strconv.Itoa(n)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	return limit
}
