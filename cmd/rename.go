package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/nameforge/internal/config"
	"github.com/kozaktomas/nameforge/internal/renamer"
)

var renameCmd = &cobra.Command{
	Use:   "rename [path]",
	Short: "Rename images under a path",
	Long: `Rename every supported image in a folder (or a single image file).
The new name combines the capture date with either the reverse-geocoded
GPS location or, with --ai, a short description of the image content
generated by a local Ollama vision model.`,
	Args: cobra.ExactArgs(1),
	RunE: runRename,
}

func init() {
	rootCmd.AddCommand(renameCmd)

	renameCmd.Flags().Bool("dry-run", false, "Preview renames without making changes")
	renameCmd.Flags().Bool("organize-by-date", false, "Move renamed files into date-named subfolders")
	renameCmd.Flags().Int("limit", 0, "Limit number of images to process (0 = no limit)")
	renameCmd.Flags().Bool("ai", false, "Describe image content with a local Ollama model instead of GPS")
	renameCmd.Flags().String("ai-model", "", "Ollama model (alias or full tag, default from OLLAMA_MODEL)")
	renameCmd.Flags().Int("ai-max-chars", 20, "Maximum characters for the AI-generated name (values below 1 use the default)")
	renameCmd.Flags().String("ai-case", "lowercase", "Case style for the AI-generated name (snake_case, camelCase, PascalCase, kebab-case, lowercase, uppercase)")
	renameCmd.Flags().String("ai-language", "English", "Language for the AI-generated name")
	renameCmd.Flags().Bool("date-only", false, "Use YYYY-MM-DD instead of a full timestamp")
	renameCmd.Flags().Bool("use-file-date", false, "Use filesystem timestamps instead of EXIF dates")
	renameCmd.Flags().Bool("prefer-modified", false, "Prefer the modified time over the creation time")
	renameCmd.Flags().Bool("no-date", false, "Omit the date fragment from generated names")
}

func runRename(cmd *cobra.Command, args []string) error {
	input := args[0]
	cfg := config.Load()

	opts := renamer.Options{
		DryRun:         mustGetBool(cmd, "dry-run"),
		OrganizeByDate: mustGetBool(cmd, "organize-by-date"),
		Limit:          mustGetInt(cmd, "limit"),
		AI:             mustGetBool(cmd, "ai"),
		AIMaxChars:     mustGetInt(cmd, "ai-max-chars"),
		AICase:         mustGetString(cmd, "ai-case"),
		AILanguage:     mustGetString(cmd, "ai-language"),
		DateOnly:       mustGetBool(cmd, "date-only"),
		UseFileDate:    mustGetBool(cmd, "use-file-date"),
		PreferModified: mustGetBool(cmd, "prefer-modified"),
		NoDate:         mustGetBool(cmd, "no-date"),
	}

	model := mustGetString(cmd, "ai-model")
	if model == "" {
		model = cfg.Ollama.Model
	}
	opts.AIModel = cfg.ResolveModel(model)

	printConfig(input, opts)

	// Set up context with signal handling for graceful cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	result, err := renamer.New(cfg).Run(ctx, input, opts)
	if err != nil {
		return err
	}

	fmt.Printf("Processed: %d\n", result.Processed)
	if !opts.DryRun {
		fmt.Printf("Renamed:   %d\n", result.Renamed)
		fmt.Printf("Skipped:   %d\n", result.Skipped)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "  error: %v\n", e)
	}
	return nil
}

// printConfig echoes the effective settings before processing starts.
func printConfig(input string, opts renamer.Options) {
	mode := "LIVE"
	if opts.DryRun {
		mode = "DRY RUN"
	}
	fmt.Println("NameForge configuration")
	fmt.Printf("  Input:        %s\n", input)
	fmt.Printf("  Mode:         %s\n", mode)
	fmt.Printf("  Date folders: %v\n", opts.OrganizeByDate)
	if opts.AI {
		fmt.Println("  AI analysis:  enabled")
		fmt.Printf("    Model:      %s\n", opts.AIModel)
		fmt.Printf("    Max chars:  %d\n", opts.AIMaxChars)
		fmt.Printf("    Case:       %s\n", opts.AICase)
		fmt.Printf("    Language:   %s\n", opts.AILanguage)
	} else {
		fmt.Println("  AI analysis:  disabled (using GPS location data)")
	}
	fmt.Println()
}
