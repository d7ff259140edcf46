// guideline-export renders accessibility guideline tables as CSV, PDF, XLSX,
// JSON, HTML, or SQLite downloads.
//
// Usage:
//
//	# Export a YAML dataset as PDF into the configured output directory
//	guideline-export export --input wcag.yaml --format pdf
//
//	# Export rows selected from a SQLite database to stdout
//	guideline-export export --sqlite guidelines.db --query "SELECT * FROM wcag" --table-name "WCAG 2.2" --out -
//
//	# Serve the HTTP export endpoint
//	guideline-export serve --listen 0.0.0.0:8080
package main

func main() {
	Execute()
}
