package export

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Field returns the raw value for a column key and whether the row carries it.
func (r GuidelineRow) Field(key string) (any, bool) {
	var value string
	switch key {
	case "id":
		value = r.ID
	case "wcagSC":
		value = r.WCAGSC
	case "wcagLevel":
		value = r.WCAGLevel
	case "wcagTitle":
		value = r.WCAGTitle
	case "columnName":
		value = r.ColumnName
	case "explanation":
		value = r.Explanation
	case "readabilityThreshold":
		value = r.ReadabilityThreshold
	case "waveType":
		value = r.WAVEType
	case "pdfuaClause":
		value = r.PDFUAClause
	case "pdfuaCode":
		value = r.PDFUACode
	case "pdfuaSeverity":
		value = r.PDFUASeverity
	case "section508":
		value = r.Section508
	case "adaTitleII":
		value = r.ADATitleII
	case "remediationGuidelines":
		value = r.RemediationGuidelines
	case "pdfuaClauseDescription":
		value = r.PDFUAClauseDescription
	case "pdfuaFixingSuggestions":
		value = r.PDFUAFixingSuggestions
	}
	if value != "" {
		return value, true
	}
	extra, ok := r.Extra[key]
	return extra, ok && extra != nil
}

// CellValue projects a row field into cell text. It never fails: absent
// fields are empty and structured values are serialized.
func CellValue(row GuidelineRow, key string) string {
	value, ok := row.Field(key)
	if !ok || isNilValue(value) {
		return ""
	}
	if stringer, ok := value.(fmt.Stringer); ok {
		return stringer.String()
	}
	if isStructured(value) {
		payload, err := json.Marshal(value)
		if err != nil {
			return stringify(value)
		}
		return string(payload)
	}
	return stringify(value)
}

func isNilValue(value any) bool {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	case reflect.Invalid:
		return true
	default:
		return false
	}
}

func isStructured(value any) bool {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return true
	default:
		return false
	}
}

// ProjectRow extracts the cells for the given column keys.
func ProjectRow(row GuidelineRow, columns []string) []string {
	cells := make([]string, len(columns))
	for i, key := range columns {
		cells[i] = CellValue(row, key)
	}
	return cells
}
