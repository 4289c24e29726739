package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/gyeh/lfpbill/internal/engine"
	"github.com/gyeh/lfpbill/internal/exitcode"
	"github.com/gyeh/lfpbill/internal/intake"
)

// hint is the message shown next to a rejected field.
func hint(f engine.FieldFailure) string {
	switch f.Reason {
	case engine.ReasonRequired:
		return "required"
	case engine.ReasonUnknownCode:
		return fmt.Sprintf("%q is not a known code", f.Value)
	case engine.ReasonMalformed:
		switch f.Field {
		case engine.FieldStartTime, engine.FieldEndTime:
			return fmt.Sprintf("%q is not a 24h HH:MM time", f.Value)
		default:
			return fmt.Sprintf("%q is not a valid date (YYYY-MM-DD)", f.Value)
		}
	case engine.ReasonNotAllowed:
		return fmt.Sprintf("must be empty for this billing code, got %q", f.Value)
	case engine.ReasonDuplicateCode:
		return fmt.Sprintf("%q is already in the extension table", f.Value)
	}
	return string(f.Reason)
}

func printHints(w io.Writer, indent string, verrs engine.ValidationErrors) {
	for _, f := range verrs {
		fmt.Fprintf(w, "%s%-16s %s\n", indent, f.Field+":", hint(f))
	}
}

// exitForError reports a failed submission and returns the process exit
// code. Validation failures are printed as field hints on stderr; everything
// else is logged.
func exitForError(log zerolog.Logger, err error) int {
	var be *intake.BatchValidationError
	var verrs engine.ValidationErrors
	var fe *engine.FatalError
	var pe *intake.PipelineError

	switch {
	case errors.As(err, &be):
		fmt.Fprintf(os.Stderr, "%d of %d entries rejected, nothing was saved:\n", len(be.Failures), be.Total)
		idx := lo.Keys(be.Failures)
		slices.Sort(idx)
		for _, i := range idx {
			fmt.Fprintf(os.Stderr, "entry %d:\n", i+1)
			printHints(os.Stderr, "  ", be.Failures[i])
		}
		return exitcode.ValidationError
	case errors.As(err, &verrs):
		fmt.Fprintln(os.Stderr, "submission rejected, nothing was saved:")
		printHints(os.Stderr, "  ", verrs)
		return exitcode.ValidationError
	case errors.As(err, &fe):
		log.Error().Err(fe.Err).Str("op", fe.Op).Msg("fatal error")
		return exitcode.FatalError
	case errors.As(err, &pe):
		log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("submission failed")
		switch pe.Phase {
		case intake.PhaseReference, intake.PhaseRegistry:
			return exitcode.ReferenceDataError
		case intake.PhasePersist, intake.PhaseExport:
			return exitcode.WriteError
		default:
			return exitcode.FatalError
		}
	}
	log.Error().Err(err).Msg("submission failed")
	return exitcode.FatalError
}
