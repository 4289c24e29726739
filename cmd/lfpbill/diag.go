package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gyeh/lfpbill/internal/diagnosis"
	"github.com/gyeh/lfpbill/internal/exitcode"
	"github.com/gyeh/lfpbill/internal/intake"
)

var searchLimit int

var diagCmd = &cobra.Command{
	Use:   "diag",
	Short: "Search and extend the diagnosis codes",
}

var diagSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "List diagnosis codes whose code or description contains the query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDiagSearch,
}

var diagAddCmd = &cobra.Command{
	Use:   "add <code> <description>",
	Short: "Add a code to the extension table",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runDiagAdd,
}

func init() {
	diagSearchCmd.Flags().IntVar(&searchLimit, "limit", 50, "Maximum results (0 = all)")
	diagCmd.AddCommand(diagSearchCmd, diagAddCmd)
	rootCmd.AddCommand(diagCmd)
}

func runDiagSearch(cmd *cobra.Command, args []string) error {
	log := setup()
	reg, err := intake.OpenDiagnoses(log, &cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to load diagnosis codes")
		os.Exit(exitcode.ReferenceDataError)
	}

	n := 0
	for e := range reg.Search(strings.Join(args, " ")) {
		if searchLimit > 0 && n == searchLimit {
			fmt.Printf("... more results, narrow the query or raise --limit\n")
			break
		}
		fmt.Println(e.Display())
		n++
	}
	if n == 0 {
		fmt.Println("no matching diagnosis codes")
	}
	return nil
}

func runDiagAdd(cmd *cobra.Command, args []string) error {
	log := setup()
	reg, err := intake.OpenDiagnoses(log, &cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to load diagnosis codes")
		os.Exit(exitcode.ReferenceDataError)
	}

	code, desc := args[0], strings.Join(args[1:], " ")
	if err := reg.Add(code, desc); err != nil {
		switch {
		case errors.Is(err, diagnosis.ErrDuplicateCode), errors.Is(err, diagnosis.ErrIncompleteEntry):
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitcode.ValidationError)
		default:
			log.Error().Err(err).Msg("failed to write extension table")
			os.Exit(exitcode.WriteError)
		}
	}

	e, _ := reg.Find(code)
	fmt.Printf("Added %s\n", e.Display())
	return nil
}
