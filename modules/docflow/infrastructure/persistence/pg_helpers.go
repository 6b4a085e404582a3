package persistence

import "strconv"

type scannable interface {
	Scan(dest ...any) error
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	return limit
}

func isUniqueViolation(code string) bool {
	return code == "23505"
}
