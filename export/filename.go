package export

import (
	"strings"
	"time"
)

// SanitizeTableName lowercases name and replaces every character outside
// [a-z0-9] with "_".
func SanitizeTableName(name string) string {
	lower := strings.ToLower(name)
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	return b.String()
}

// BuildFilename derives <sanitized table name>_export_<YYYY-MM-DD>.<ext>,
// dated in UTC.
func BuildFilename(tableName string, format Format, now time.Time) string {
	return SanitizeTableName(tableName) + "_export_" + now.UTC().Format("2006-01-02") + "." + FileExtension(format)
}

// FileExtension returns the extension used for format.
func FileExtension(format Format) string {
	switch format {
	case FormatSQLite:
		return "sqlite"
	case "":
		return string(FormatCSV)
	default:
		return string(format)
	}
}

// ContentType returns the MIME type for format.
func ContentType(format Format) string {
	switch format {
	case FormatCSV:
		return "text/csv;charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatSQLite:
		return "application/vnd.sqlite3"
	default:
		return "application/octet-stream"
	}
}
