package normalize

import "strings"

// DiagnosisCode extracts the code from a diagnosis input, which may be a bare
// code ("A01") or the searchable display form ("A01 - Cholera (INFECTIONS)").
func DiagnosisCode(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, " - "); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
