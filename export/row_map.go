package export

var knownRowFields = map[string]func(*GuidelineRow, string){
	"id":                     func(r *GuidelineRow, v string) { r.ID = v },
	"wcagSC":                 func(r *GuidelineRow, v string) { r.WCAGSC = v },
	"wcagLevel":              func(r *GuidelineRow, v string) { r.WCAGLevel = v },
	"wcagTitle":              func(r *GuidelineRow, v string) { r.WCAGTitle = v },
	"columnName":             func(r *GuidelineRow, v string) { r.ColumnName = v },
	"explanation":            func(r *GuidelineRow, v string) { r.Explanation = v },
	"readabilityThreshold":   func(r *GuidelineRow, v string) { r.ReadabilityThreshold = v },
	"waveType":               func(r *GuidelineRow, v string) { r.WAVEType = v },
	"pdfuaClause":            func(r *GuidelineRow, v string) { r.PDFUAClause = v },
	"pdfuaCode":              func(r *GuidelineRow, v string) { r.PDFUACode = v },
	"pdfuaSeverity":          func(r *GuidelineRow, v string) { r.PDFUASeverity = v },
	"section508":             func(r *GuidelineRow, v string) { r.Section508 = v },
	"adaTitleII":             func(r *GuidelineRow, v string) { r.ADATitleII = v },
	"remediationGuidelines":  func(r *GuidelineRow, v string) { r.RemediationGuidelines = v },
	"pdfuaClauseDescription": func(r *GuidelineRow, v string) { r.PDFUAClauseDescription = v },
	"pdfuaFixingSuggestions": func(r *GuidelineRow, v string) { r.PDFUAFixingSuggestions = v },
}

// RowFromMap builds a GuidelineRow from a decoded record. Known keys are
// stringified into their fields; structured values under known keys and all
// unknown keys are kept in Extra.
func RowFromMap(record map[string]any) GuidelineRow {
	row := GuidelineRow{}
	for key, value := range record {
		if value == nil {
			continue
		}
		setter, known := knownRowFields[key]
		if known && !isStructured(value) {
			setter(&row, stringify(value))
			continue
		}
		if row.Extra == nil {
			row.Extra = make(map[string]any)
		}
		row.Extra[key] = value
	}
	return row
}
