package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/norma43/internal/http/statement"
	"github.com/MrJamesThe3rd/norma43/internal/importer"
	"github.com/MrJamesThe3rd/norma43/internal/norma43"
)

func newParseCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a statement file and print its accounts and entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			accounts, err := importer.NewService().Import(importer.FormatNorma43, f)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")

				return enc.Encode(statement.NewAccountResponses(accounts))
			}

			renderAccounts(cmd.OutOrStdout(), accounts)

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the parsed accounts as JSON")

	return cmd
}

func renderAccounts(w io.Writer, accounts []norma43.Account) {
	r := lipgloss.NewRenderer(w)

	var (
		title  = r.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
		faint  = r.NewStyle().Faint(true)
		debit  = r.NewStyle().Foreground(lipgloss.Color("160"))
		credit = r.NewStyle().Foreground(lipgloss.Color("34"))
	)

	for i, acc := range accounts {
		if i > 0 {
			fmt.Fprintln(w)
		}

		fmt.Fprintln(w, title.Render(acc.IBAN), acc.Currency, acc.OwnerName)

		end := "open"
		if acc.Closed() {
			end = acc.BalanceEnd.StringFixed(2)
		}

		fmt.Fprintln(w, faint.Render(fmt.Sprintf("%s to %s  initial %s  final %s  entries %d",
			acc.DateStart.Format(time.DateOnly), acc.DateEnd.Format(time.DateOnly),
			acc.BalanceInitial.StringFixed(2), end, len(acc.Entries))))

		for _, e := range acc.Entries {
			style := credit
			if e.Type == norma43.TypeDebit {
				style = debit
			}

			fmt.Fprintf(w, "  %s  %-7s %s  %s\n",
				e.Date.Format(time.DateOnly), e.Type,
				style.Render(fmt.Sprintf("%12s", e.Amount.StringFixed(2))),
				describe(e))
		}
	}
}

// describe joins the entry's concepts in slot order, falling back to its references.
func describe(e norma43.Entry) string {
	var parts []string

	for slot := 1; slot <= 99; slot++ {
		if text, ok := e.Concepts[fmt.Sprintf("%02d", slot)]; ok && text != "" {
			parts = append(parts, text)
		}
	}

	if len(parts) == 0 && e.Reference2 != "" {
		parts = append(parts, e.Reference2)
	}

	return strings.Join(parts, " / ")
}
