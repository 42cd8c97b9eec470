package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/photo-grid/internal/generator"
	"github.com/kozaktomas/photo-grid/internal/imageset"
	"github.com/kozaktomas/photo-grid/internal/settings"
)

var generateCmd = &cobra.Command{
	Use:   "generate [path...]",
	Short: "Generate a grid PDF from images",
	Long: `Generate a PDF document that lays the given images out on a grid.
Paths may be image files or directories; directories are scanned for
supported image formats and ordered by filename. Images that cannot be
read are skipped with a warning, leaving their cells empty.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("output", "o", "photo-grid.pdf", "Output PDF file")
	generateCmd.Flags().BoolP("recursive", "r", false, "Scan directories recursively")
	generateCmd.Flags().String("policy", "", "Pagination policy: sequential or cyclic")
	generateCmd.Flags().Int("workers", 0, "Number of parallel image workers (0 = default)")
	generateCmd.Flags().String("page-size", "", "Page size override (A3, A4, A5, Letter, Legal, Tabloid)")
	generateCmd.Flags().Int("dpi", 0, "Output DPI override")
	generateCmd.Flags().Float64("cell-width", 0, "Cell width override in millimeters")
	generateCmd.Flags().Float64("cell-height", 0, "Cell height override in millimeters")
	generateCmd.Flags().Bool("no-grid", false, "Disable grid lines")
}

// applyOverrides folds per-run flag values into the loaded settings.
func applyOverrides(cmd *cobra.Command, s *settings.GridSettings) {
	if v := mustGetString(cmd, "page-size"); v != "" {
		s.PageSize = v
	}
	if v := mustGetInt(cmd, "dpi"); v > 0 {
		s.OutputDPI = v
	}
	if v := mustGetFloat64(cmd, "cell-width"); v > 0 {
		s.ColWidthMM = v
	}
	if v := mustGetFloat64(cmd, "cell-height"); v > 0 {
		s.RowHeightMM = v
	}
	if mustGetBool(cmd, "no-grid") {
		s.GridLineVisible = false
	}
	if v := mustGetString(cmd, "policy"); v != "" {
		s.Pagination = v
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	output := mustGetString(cmd, "output")
	recursive := mustGetBool(cmd, "recursive")
	workers := mustGetInt(cmd, "workers")

	s := settings.Load(settingsPath)
	applyOverrides(cmd, &s)
	if err := s.Validate(); err != nil {
		return err
	}
	policy, err := s.Policy()
	if err != nil {
		return err
	}

	images, err := imageset.Collect(args, recursive)
	if err != nil {
		return fmt.Errorf("collecting images: %w", err)
	}
	fmt.Printf("Found %d images\n", len(images))

	// Set up context with signal handling for graceful cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle Ctrl+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal...")
		cancel()
	}()

	var bar *progressbar.ProgressBar
	task := generator.New(images, s, generator.Options{
		Policy:  policy,
		Workers: workers,
		OnProgress: func(p generator.ProgressInfo) {
			if bar == nil {
				bar = progressbar.NewOptions(p.TotalCells,
					progressbar.OptionSetDescription("Composing"),
					progressbar.OptionShowCount(),
					progressbar.OptionShowIts(),
					progressbar.OptionSetItsString("cells"),
					progressbar.OptionShowElapsedTimeOnFinish(),
					progressbar.OptionSetPredictTime(true),
					progressbar.OptionFullWidth(),
					progressbar.OptionSetTheme(progressbar.Theme{
						Saucer:        "=",
						SaucerHead:    ">",
						SaucerPadding: " ",
						BarStart:      "[",
						BarEnd:        "]",
					}),
				)
			}
			_ = bar.Set(p.CompletedCells)
		},
		OnCellSkipped: func(path string, err error) {
			fmt.Fprintf(os.Stderr, "\nWarning: skipping %s: %v\n", path, err)
		},
	})

	result, err := task.Run(ctx)
	if bar != nil {
		_ = bar.Finish()
		fmt.Println()
	}

	if task.Status() == generator.StatusCancelled {
		fmt.Println("Generation cancelled, no output written")
		return nil
	}
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	if err := os.WriteFile(output, result.PDF, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	fmt.Printf("\nWrote %s\n", output)
	fmt.Printf("  Pages: %d\n", result.PageCount)
	fmt.Printf("  Cells: %d (%d filled, %d skipped)\n", result.TotalCells, result.AssignedCells, result.SkippedCells)
	return nil
}
