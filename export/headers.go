package export

import "strings"

// ExpandedDetailsHeader labels the synthetic trailing column that carries
// expanded long-form text.
const ExpandedDetailsHeader = "Expanded Details"

var fixedHeaderLabels = map[string]string{
	"id":                     "ID",
	"wcagSC":                 "WCAG Principle",
	"wcagLevel":              "WCAG Level",
	"wcagTitle":              "WCAG Title",
	"readabilityThreshold":   "Threshold",
	"waveType":               "WAVE Type",
	"pdfuaClause":            "PDF/UA Clause",
	"pdfuaCode":              "PDF/UA Code",
	"pdfuaSeverity":          "Severity",
	"section508":             "Section 508",
	"adaTitleII":             "ADA Title II",
	"remediationGuidelines":  "Remediation Guidelines",
	"pdfuaClauseDescription": "Clause Description",
	"pdfuaFixingSuggestions": "Fixing Suggestions",
}

// category-polymorphic keys: label depends on the table category.
var categoryHeaderLabels = map[string]map[Category]string{
	"columnName": {
		CategoryReadability: "Readability Metric",
		CategoryWAVE:        "WAVE Variable",
		CategoryPDFUA:       "PDF/UA Rule",
		CategoryWCAG:        "WCAG Success Criteria",
	},
	"explanation": {
		CategoryReadability: "Metric Explanation",
		CategoryWAVE:        "WAVE Description",
		CategoryPDFUA:       "Rule Explanation",
		CategoryWCAG:        "Explanation",
	},
}

// NormalizeCategory folds category aliases; anything unknown uses the WCAG
// vocabulary.
func NormalizeCategory(category Category) Category {
	switch Category(strings.ToLower(strings.TrimSpace(string(category)))) {
	case CategoryReadability:
		return CategoryReadability
	case CategoryWAVE:
		return CategoryWAVE
	case CategoryPDFUA, "pdf/ua", "pdf-ua":
		return CategoryPDFUA
	default:
		return CategoryWCAG
	}
}

// HeaderLabel resolves a single column key. Unrecognized keys are their own
// label.
func HeaderLabel(category Category, key string) string {
	if labels, ok := categoryHeaderLabels[key]; ok {
		return labels[NormalizeCategory(category)]
	}
	if label, ok := fixedHeaderLabels[key]; ok {
		return label
	}
	return key
}

// ResolveHeaders maps column keys to labels, preserving order and length.
func ResolveHeaders(category Category, columns []string) []string {
	headers := make([]string, len(columns))
	for i, key := range columns {
		headers[i] = HeaderLabel(category, key)
	}
	return headers
}

// RecognizedColumns lists every key with a dedicated label.
func RecognizedColumns() []string {
	keys := make([]string, 0, len(fixedHeaderLabels)+len(categoryHeaderLabels))
	for key := range categoryHeaderLabels {
		keys = append(keys, key)
	}
	for key := range fixedHeaderLabels {
		keys = append(keys, key)
	}
	return keys
}
