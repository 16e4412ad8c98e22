package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/norma43/internal/iban"
)

func newIBANCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "iban <bank> <office> <account>",
		Short: "Compute the CCC control digits and the Spanish IBAN of an account",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ccc, err := iban.CCC(args[0], args[1], args[2])
			if err != nil {
				return err
			}

			code, err := iban.FromCCC("ES", ccc)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "CCC  %s\nIBAN %s\n", ccc, code)

			return nil
		},
	}
}
