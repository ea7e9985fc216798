package util

import (
	"fmt"
	"strconv"
)

// StringToUint64 converts string to uint64
func StringToUint64(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse uint64: %w", err)
	}
	return n, nil
}

// IsSnowflake reports whether s is a well-formed Discord snowflake id.
func IsSnowflake(s string) bool {
	if s == "" || len(s) > 20 {
		return false
	}
	n, err := StringToUint64(s)
	return err == nil && n > 0
}

// FilterSnowflakes returns the well-formed ids of in, deduplicated, in order.
func FilterSnowflakes(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, id := range in {
		if !IsSnowflake(id) {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
