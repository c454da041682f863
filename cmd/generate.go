package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/lotuschain/gnome-ext-builder/internal/core"
	"github.com/lotuschain/gnome-ext-builder/internal/output"
	"github.com/lotuschain/gnome-ext-builder/internal/tui"
)

var (
	outputMode    string
	outputDir     string
	extensionsDir string
	inputFile     string
	noTUI         bool
	dryRun        bool
	overwrite     bool
)

// GenerateCmd represents the generate command.
var GenerateCmd = &cobra.Command{
	Use:   "generate [description...]",
	Short: "Generate extension.js and metadata.json from a description",
	Long: `Describe a GNOME Shell extension in plain language and generate its
initial extension.js and metadata.json.

The description is taken from the arguments, from --file, or from stdin.

Output modes:
- stdout:  print both files with install instructions (default)
- json:    print {"extension_js": ..., "metadata_json": ...}
- dir:     write both files into --dir
- install: write both files into ~/.local/share/gnome-shell/extensions/<uuid>`,
	RunE: runGenerate,
}

func init() {
	GenerateCmd.Flags().StringVarP(&outputMode, "output", "o", "stdout", "Output mode (stdout/json/dir/install)")
	GenerateCmd.Flags().StringVar(&outputDir, "dir", ".", "Target directory for --output dir")
	GenerateCmd.Flags().StringVar(&extensionsDir, "extensions-dir", "", "Extensions root for --output install")
	GenerateCmd.Flags().StringVarP(&inputFile, "file", "f", "", "Read the description from a file")
	GenerateCmd.Flags().BoolVar(&noTUI, "no-tui", false, "Disable the interactive spinner")
	GenerateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview file writes without creating them")
	GenerateCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing files")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyString(cmd, "output", &outputMode, cfg.Output)
	applyString(cmd, "dir", &outputDir, cfg.Dir)
	applyString(cmd, "extensions-dir", &extensionsDir, cfg.ExtensionsDir)

	description, err := readDescription(args, inputFile, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if strings.TrimSpace(description) == "" {
		return errors.New(core.EmptyDescriptionMessage)
	}

	var adapter output.Adapter
	if outputMode != "stdout" {
		if adapter, err = output.New(outputMode); err != nil {
			return err
		}
		if ok, err := adapter.IsAvailable(); err != nil {
			return fmt.Errorf("output %s not available: %w", adapter.Name(), err)
		} else if !ok {
			return fmt.Errorf("output %s not available", adapter.Name())
		}
	}

	gen, llmAdapter, err := newGenerator(cmd.Context())
	if err != nil {
		return err
	}

	model := llmAdapter.Model()
	prompt := core.BuildPrompt(description)
	interactive := !noTUI && isatty.IsTerminal(os.Stdout.Fd())

	var (
		pair    *core.ArtifactPair
		elapsed time.Duration
	)
	if interactive {
		pair, elapsed, err = tui.RunWithSpinner(model, func() (*core.ArtifactPair, error) {
			return gen.Generate(cmd.Context(), description)
		})
	} else {
		fmt.Fprintln(cmd.ErrOrStderr(), tui.RenderStart(model, len(prompt)))
		start := time.Now()
		pair, err = gen.Generate(cmd.Context(), description)
		elapsed = time.Since(start)
	}
	if err != nil {
		return err
	}

	outputChars := len(pair.ExtensionJS) + len(pair.MetadataJSON)
	fmt.Fprintln(cmd.ErrOrStderr(), tui.RenderComplete(model, elapsed, len(prompt), outputChars))

	if adapter == nil {
		printArtifacts(cmd.OutOrStdout(), pair)
		return nil
	}
	return writeArtifacts(cmd, adapter, pair)
}

// readDescription joins the arguments, or reads --file, or reads stdin.
func readDescription(args []string, file string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read description: %w", err)
		}
		return string(data), nil
	}
	if f, ok := stdin.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return "", nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read description from stdin: %w", err)
	}
	return string(data), nil
}

func printArtifacts(w io.Writer, pair *core.ArtifactPair) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, tui.RenderArtifact(output.ExtensionFile, pair.ExtensionJS))
	fmt.Fprintln(w, tui.RenderArtifact(output.MetadataFile, pair.MetadataJSON))
	fmt.Fprint(w, tui.RenderMarkdown(tui.InstallInstructions(core.InstallUUID(pair.MetadataJSON))))
}

func writeArtifacts(cmd *cobra.Command, adapter output.Adapter, pair *core.ArtifactPair) error {
	config := output.DefaultConfig()
	config.Dir = outputDir
	if extensionsDir != "" {
		config.ExtensionsDir = extensionsDir
	}
	config.DryRun = dryRun
	config.Overwrite = overwrite

	result, err := adapter.Write(pair, config)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	w := cmd.ErrOrStderr()
	for _, f := range result.Files {
		verb := "Wrote"
		if dryRun {
			verb = "Would write"
		}
		fmt.Fprintf(w, "%s %s %s\n", tui.SuccessStyle.Render("✓"), verb, tui.FileStyle.Render(f))
	}
	if outputMode == "install" {
		fmt.Fprintf(w, "\nEnable it with: %s\n", tui.ModelStyle.Render("gnome-extensions enable "+result.UUID))
	}
	return nil
}
