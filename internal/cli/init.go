package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/floor/internal/config"
	"github.com/example/floor/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize floor in the current directory",
		Long: `Write .floor/config.json and create the database with the required schema.
An existing config file is left untouched unless --force is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			dbPath, _ := cmd.Flags().GetString("db")
			force, _ := cmd.Flags().GetBool("force")
			return runInit(cmd, dir, dbPath, force)
		},
	}
	cmd.Flags().String("db", "", "Database path (default: ~/.floor/floor.db)")
	cmd.Flags().Bool("force", false, "Overwrite an existing config file")
	return cmd
}

func runInit(cmd *cobra.Command, dir, dbPath string, force bool) error {
	out := cmd.OutOrStdout()

	_, err := config.LoadConfig(dir)
	switch {
	case err == nil && !force:
		fmt.Fprintln(out, "✓ Config already present at .floor/config.json")
	case err == nil || errors.Is(err, os.ErrNotExist):
		cfg := config.Default()
		cfg.DBPath = dbPath
		if err := config.SaveConfig(dir, cfg); err != nil {
			return err
		}
		fmt.Fprintln(out, "✓ Config written to .floor/config.json")
	default:
		return err
	}

	c, err := wire.Open(dir)
	if err != nil {
		return err
	}
	defer c.Close()

	fmt.Fprintln(out, "✓ Database initialized successfully")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, `  floor line create "Assembly A"`)
	fmt.Fprintln(out, "  floor order create OF-001 --qty 10 --start 2024-03-01 --end 2024-03-05 --line LINE-001")
	return nil
}
