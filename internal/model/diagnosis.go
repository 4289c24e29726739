package model

import "fmt"

// DiagnosisEntry is a diagnosis code with its description. Category is the
// name of the reference table the entry came from.
type DiagnosisEntry struct {
	Code        string
	Description string
	Category    string
}

// Display renders the searchable form "Code - Description (Category)".
func (d DiagnosisEntry) Display() string {
	if d.Category == "" {
		return fmt.Sprintf("%s - %s", d.Code, d.Description)
	}
	return fmt.Sprintf("%s - %s (%s)", d.Code, d.Description, d.Category)
}
