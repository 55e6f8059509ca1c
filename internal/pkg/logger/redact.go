package logger

import "strings"

// RedactDSN masks the credentials of a connection string.
// "postgres://roi:hunter2@db:5432/roi" → "postgres://***@db:5432/roi"
// "user:pw@account/db/schema"         → "***@account/db/schema"
// Strings without an "@" are returned unchanged.
func RedactDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	if at < 0 {
		return dsn
	}
	prefix := ""
	if i := strings.Index(dsn, "://"); i >= 0 && i < at {
		prefix = dsn[:i+3]
	}
	return prefix + "***" + dsn[at:]
}
