package xlsxbuild

import "fmt"

// FormatFileSize renders a byte count as a human-readable size string.
// Anything under one KiB reports as "1 KB" so a written file never shows as
// zero; up to 1024 KiB the size is integer KB; beyond that, two-decimal MB.
func FormatFileSize(n int) string {
	kb := float64(n) / 1024

	if kb < 1024 {
		if kb >= 1 {
			return fmt.Sprintf("%.0f KB", kb)
		}
		return "1 KB"
	}
	return fmt.Sprintf("%.2f MB", kb/1024)
}
