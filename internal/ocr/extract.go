package ocr

import (
	"regexp"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/gyeh/lfpbill/internal/model"
)

// Billing hints inferred from visit-type keywords.
const (
	HintVirtual = "98032"
	HintOffice  = "98031"
)

var (
	phnPattern     = regexp.MustCompile(`\b\d{10}\b`)
	fromDate       = regexp.MustCompile(`(?i)\bfrom\s*:?\s*(2[0oO][0-9oO]{2}-[0-9oO]{2}-[0-9oO]{2})`)
	dashedDate     = regexp.MustCompile(`\b20\d{2}-\d{2}-\d{2}\b`)
	compactDate    = regexp.MustCompile(`\b(20\d{2})(\d{2})(\d{2})\b`)
	letterOAsZero  = strings.NewReplacer("O", "0", "o", "0")
	virtualKeyword = regexp.MustCompile(`(?i)\bvirtual\b`)
	officeKeyword  = regexp.MustCompile(`(?i)\boffice\b`)
)

// Result is what the heuristics recovered from one screenshot's text.
type Result struct {
	PHNs            []string   // 10-digit candidates, first-seen order, no repeats
	AppointmentDate *time.Time // nil when no valid date was found
	BillingHint     string     // HintVirtual, HintOffice or empty
}

// Extract runs every heuristic over recognized text.
func Extract(text string) Result {
	return Result{
		PHNs:            PHNs(text),
		AppointmentDate: AppointmentDate(text),
		BillingHint:     BillingHint(text),
	}
}

// PHNs returns every standalone 10-digit number in text.
func PHNs(text string) []string {
	return lo.Uniq(phnPattern.FindAllString(text, -1))
}

// AppointmentDate looks for a "From: YYYY-MM-DD" header, then a standalone
// YYYYMMDD, then any YYYY-MM-DD. The first candidate that is a real
// calendar date wins. Inside the "From:" date a letter O is read as zero, a
// common recognition mistake.
func AppointmentDate(text string) *time.Time {
	if m := fromDate.FindStringSubmatch(text); m != nil {
		if d, ok := parseISO(letterOAsZero.Replace(m[1])); ok {
			return &d
		}
	}
	for _, m := range compactDate.FindAllStringSubmatch(text, -1) {
		if d, ok := parseISO(m[1] + "-" + m[2] + "-" + m[3]); ok {
			return &d
		}
	}
	for _, s := range dashedDate.FindAllString(text, -1) {
		if d, ok := parseISO(s); ok {
			return &d
		}
	}
	return nil
}

// BillingHint maps a visit-type keyword to a billing code. Virtual visits
// take precedence when both keywords appear.
func BillingHint(text string) string {
	switch {
	case virtualKeyword.MatchString(text):
		return HintVirtual
	case officeKeyword.MatchString(text):
		return HintOffice
	}
	return ""
}

func parseISO(s string) (time.Time, bool) {
	d, err := time.Parse(model.DateLayout, s)
	return d, err == nil
}
