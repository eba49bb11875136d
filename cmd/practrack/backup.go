package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write a JSON backup to a file or stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExportCmd,
	}
}

func runExportCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	data, err := a.tracker.Export()
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if len(args) == 0 || args[0] == "-" {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(args[0], data, 0o644); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	a.log.Info("backup exported", "path", args[0], "bytes", len(data))
	return nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Replace all data with a JSON backup from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.tracker.Import(withContext(cmd), data); err != nil {
		return err
	}
	doc := a.tracker.Document()
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Imported %d session(s).\n", len(doc.Sessions)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

var resetYes bool

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard all sessions and settings",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetYes, "yes", false, "confirm discarding everything")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		return fmt.Errorf("refusing to discard all data without --yes")
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.tracker.Reset(withContext(cmd)); err != nil {
		return err
	}
	a.log.Info("data reset", "db", rootDBPath)
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), "All data reset to defaults."); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
