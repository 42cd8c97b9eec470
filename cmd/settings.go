package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/photo-grid/internal/pagesize"
	"github.com/kozaktomas/photo-grid/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage the grid settings file",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := settings.Load(settingsPath)
		data, err := json.MarshalIndent(s, "", "    ")
		if err != nil {
			return fmt.Errorf("encoding settings: %w", err)
		}
		fmt.Println(string(data))
		return nil
	},
}

var settingsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a settings file with factory defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(settingsPath); err == nil && !mustGetBool(cmd, "force") {
			return fmt.Errorf("%s already exists, use --force to overwrite", settingsPath)
		}
		if err := settings.Default().Save(settingsPath); err != nil {
			return err
		}
		fmt.Printf("Wrote default settings to %s\n", settingsPath)
		fmt.Printf("Supported page sizes: %s\n", strings.Join(pagesize.Tokens(), ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsInitCmd)

	settingsInitCmd.Flags().Bool("force", false, "Overwrite an existing settings file")
}
