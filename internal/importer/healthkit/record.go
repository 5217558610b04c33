// Package healthkit imports Apple Health quantity records.
package healthkit

import "fmt"

// Record is one raw instant-style record as found in export.xml. Unit is
// informational only and EndDate is not used by any current descriptor.
type Record struct {
	Type       string
	Unit       string
	Value      string
	SourceName string
	StartDate  string
	EndDate    string
}

// String renders the record one attribute per line for error messages.
func (r Record) String() string {
	return fmt.Sprintf("type=%s\nvalue=%s\nunit=%s\nsource=%s\nstart_date=%s\nend_date=%s",
		r.Type, r.Value, r.Unit, r.SourceName, r.StartDate, r.EndDate)
}
