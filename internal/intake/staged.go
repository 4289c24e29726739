package intake

import (
	"fmt"
	"strings"

	"github.com/gyeh/lfpbill/internal/diagnosis"
	"github.com/gyeh/lfpbill/internal/model"
	"github.com/gyeh/lfpbill/internal/normalize"
)

// stagedDiagnoses checks extension-table additions against the registry
// without writing them, so a whole batch can be validated before anything
// touches disk.
type stagedDiagnoses struct {
	reg    *diagnosis.Registry
	staged map[string]model.DiagnosisEntry
}

func newStagedDiagnoses(reg *diagnosis.Registry) *stagedDiagnoses {
	return &stagedDiagnoses{reg: reg, staged: make(map[string]model.DiagnosisEntry)}
}

func (s *stagedDiagnoses) Find(code string) (model.DiagnosisEntry, bool) {
	if e, ok := s.staged[normalize.DiagnosisCode(code)]; ok {
		return e, true
	}
	return s.reg.Find(code)
}

func (s *stagedDiagnoses) Add(code, description string) error {
	code = strings.TrimSpace(code)
	description = normalize.CollapseSpace(description)
	if code == "" || description == "" {
		return diagnosis.ErrIncompleteEntry
	}
	if _, dup := s.staged[code]; dup || s.reg.Extends(code) {
		return fmt.Errorf("%w: %s", diagnosis.ErrDuplicateCode, code)
	}
	s.staged[code] = model.DiagnosisEntry{Code: code, Description: description}
	return nil
}
