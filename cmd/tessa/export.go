package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vishwajitjha79-spec/TESSA-AI/internal/app/history"
)

func newExportCmd(c *cli) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored conversations as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.load(true); err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), c.cfg, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			b, err := a.svc.Export(cmd.Context())
			if err != nil {
				return err
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(append(b, '\n'))
				return err
			}
			if err := os.WriteFile(out, b, 0o600); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "exported to", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the conversation document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := history.DocumentSchema()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(b, '\n'))
			return err
		},
	}
}
