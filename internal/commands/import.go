package commands

import (
	"github.com/spf13/cobra"

	"finsheet/internal/cli"
)

func newCategorizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categorize <csv_file> <bank>",
		Short: "Normalize and label a statement and save the cleaned CSV",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			ctx, stop := cli.SignalContext(cmd.Context())
			defer stop()

			svc, cleanup, err := a.importService(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			_, err = svc.Categorize(ctx, args[0], args[1])
			return err
		},
	}
}

func newUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update <cleaned_csv> <bank>",
		Short: "Write a cleaned CSV to its year tab and update the Master tab",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			ctx, stop := cli.SignalContext(cmd.Context())
			defer stop()

			svc, cleanup, err := a.importService(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			_, err = svc.Update(ctx, args[0], args[1])
			return err
		},
	}
}

func runImport(cmd *cobra.Command, input, bank string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	ctx, stop := cli.SignalContext(cmd.Context())
	defer stop()

	svc, cleanup, err := a.importService(ctx, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer cleanup()

	_, err = svc.Run(ctx, input, bank)
	return err
}
