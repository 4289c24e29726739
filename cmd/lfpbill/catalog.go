package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gyeh/lfpbill/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List billing codes and facilities",
	Args:  cobra.NoArgs,
	Run:   runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) {
	fmt.Println("Billing codes:")
	for _, bc := range catalog.All() {
		var notes []string
		if bc.AutoDiagnosis {
			notes = append(notes, "diagnosis "+catalog.FallbackDiagnosis)
		}
		if bc.TimeRequired {
			notes = append(notes, "start/end time")
		}
		if bc.Code == catalog.DefaultCode() {
			notes = append(notes, "default")
		}
		fmt.Printf("  %-6s %-28s %s\n", bc.Code, bc.Label, strings.Join(notes, ", "))
	}
	fmt.Println()
	fmt.Println("Facilities:")
	for _, f := range catalog.Facilities() {
		fmt.Printf("  %-2s %-6s %-22s rural premium: %s\n", f.Selection, f.Code, f.Name, f.RuralPremium)
	}
}
