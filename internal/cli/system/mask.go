package system

import "strings"

// MaskPassword hides the password of a connection string for display.
func MaskPassword(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		idx := strings.Index(connStr, "://")
		rest := connStr[idx+3:]
		if at := strings.LastIndex(rest, "@"); at != -1 {
			userInfo := rest[:at]
			if colon := strings.Index(userInfo, ":"); colon != -1 {
				return connStr[:idx+3] + userInfo[:colon] + ":****" + rest[at:]
			}
		}
		return connStr
	}

	if strings.Contains(connStr, "password=") {
		parts := strings.Fields(connStr)
		for i, part := range parts {
			if strings.HasPrefix(part, "password=") {
				parts[i] = "password=****"
			}
		}
		return strings.Join(parts, " ")
	}
	return connStr
}
