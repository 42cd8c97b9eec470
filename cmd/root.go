package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var settingsPath string

var rootCmd = &cobra.Command{
	Use:   "photo-grid",
	Short: "Arrange photos into printable grid sheets",
	Long: `Photo Grid arranges raster images into a fixed grid on paginated
sheets and writes the result as a PDF ready for printing. Cell size,
margins, page format and grid lines are configured through a JSON
settings file or per-run flags.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "grid_settings.json", "Path to the grid settings file")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
