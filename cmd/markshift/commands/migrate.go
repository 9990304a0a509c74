package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/markshift/internal/logger"
	"github.com/jmylchreest/markshift/internal/output"
	"github.com/jmylchreest/markshift/pkg/fetcher"
	"github.com/jmylchreest/markshift/pkg/migrate"
	"github.com/jmylchreest/markshift/pkg/normalize"
	"github.com/jmylchreest/markshift/pkg/normalize/prune"
	"github.com/jmylchreest/markshift/pkg/part"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Rewrite markup from one site's parts into another's",
	Long: `Rewrite markup from one site's part vocabulary into another's.

Sites are looked up in the registry by ID or name. Instead of a registered
site, either side may be given as a part definition document with
--from-parts or --to-parts.

Input is read from --input, fetched from --url, or read from stdin.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	flags := migrateCmd.Flags()

	// Vocabularies
	flags.StringP("from", "f", "", "source site ID or name")
	flags.StringP("to", "t", "", "target site ID or name")
	flags.String("from-parts", "", "source part definition document")
	flags.String("to-parts", "", "target part definition document")

	// Input
	flags.StringP("input", "i", "", "input file (- for stdin)")
	flags.StringP("url", "u", "", "fetch input from this URL")
	flags.String("selector", "", "CSS selector limiting fetched input to one element")
	flags.Duration("timeout", 30*time.Second, "request timeout for --url")
	flags.String("max-input-size", "10MB", "max input size (e.g., 500KB, 10MB, 0=unlimited)")

	// Output
	flags.StringP("output", "o", "", "output file (default stdout)")
	flags.String("format", "code", "output format: code, json, yaml, preview, markdown")
	flags.String("preview", "", "also write a highlighted preview page to this file")
	flags.Bool("stats", false, "include migration stats in structured output")
	flags.String("indent", "  ", "indentation for --format json")
	flags.Bool("compact", false, "write --format json on a single line")
	flags.Bool("strict", false, "fail when a matched source part has no target")

	// Normalization
	flags.Bool("no-prune", false, "disable pruning of emptied elements")
	flags.StringSlice("keep-class", nil, "class names that exempt elements from pruning")
	flags.StringSlice("keep-tag", nil, "additional tags never pruned")

	_ = viper.BindPFlag("keep_classes", flags.Lookup("keep-class"))
	_ = viper.BindPFlag("keep_tags", flags.Lookup("keep-tag"))
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Debug("migrate command starting")

	sourceParts, err := resolveParts(cmd, "from", "from-parts")
	if err != nil {
		logError("%v", err)
		return err
	}
	targetParts, err := resolveParts(cmd, "to", "to-parts")
	if err != nil {
		logError("%v", err)
		return err
	}
	logger.Debug("vocabularies resolved", "source_parts", len(sourceParts), "target_parts", len(targetParts))

	input, err := readInput(ctx, cmd)
	if err != nil {
		logError("%v", err)
		return err
	}

	opts := []migrate.Option{
		migrate.WithNormalizer(buildNormalizer(cmd)),
		migrate.WithLogger(logger.L()),
	}
	if start, end := viper.GetString("highlight_start"), viper.GetString("highlight_end"); start != "" && end != "" {
		opts = append(opts, migrate.WithHighlight(start, end))
	}

	res, err := migrate.New(opts...).Migrate(input, sourceParts, targetParts)
	if err != nil {
		logger.Error("migration failed", "error", err)
		return err
	}

	for _, m := range res.Missing {
		logger.Warn("source part has no target mapping", "part", m.Name)
	}

	if err := writeResult(cmd, res); err != nil {
		logger.Error("failed to write output", "error", err)
		return err
	}

	if previewPath, _ := cmd.Flags().GetString("preview"); previewPath != "" {
		if err := writeFile(previewPath, output.FormatPreview, res); err != nil {
			logger.Error("failed to write preview", "path", previewPath, "error", err)
			return err
		}
		logger.Debug("preview written", "path", previewPath)
	}

	logInfo("Migrated %s to %s: %d replacements, %d missing, %d unbalanced (%s)",
		humanize.Bytes(uint64(res.Stats.InputBytes)),
		humanize.Bytes(uint64(res.Stats.OutputBytes)),
		res.Stats.TotalReplacements(),
		len(res.Missing),
		res.Stats.Unbalanced,
		res.Stats.TotalDuration.Round(time.Millisecond),
	)

	if strict, _ := cmd.Flags().GetBool("strict"); strict && res.HasMissing() {
		names := make([]string, 0, len(res.Missing))
		for _, m := range res.Missing {
			names = append(names, m.Name)
		}
		err := fmt.Errorf("no target mapping for parts: %s", strings.Join(names, ", "))
		logError("%v", err)
		return err
	}
	return nil
}

// resolveParts returns the parts named by a site flag or read from a
// definition document flag. Exactly one of the two must be set.
func resolveParts(cmd *cobra.Command, siteFlag, docFlag string) ([]part.Definition, error) {
	siteKey, _ := cmd.Flags().GetString(siteFlag)
	docPath, _ := cmd.Flags().GetString(docFlag)

	switch {
	case siteKey != "" && docPath != "":
		return nil, fmt.Errorf("--%s and --%s are mutually exclusive", siteFlag, docFlag)
	case docPath != "":
		return readDefinitionFile(docPath)
	case siteKey != "":
		reg, err := loadRegistry(true)
		if err != nil {
			return nil, err
		}
		site, err := reg.Site(siteKey)
		if err != nil {
			return nil, fmt.Errorf("%w (registry %s)", err, reg.Path())
		}
		return site.Parts, nil
	default:
		return nil, fmt.Errorf("one of --%s or --%s is required", siteFlag, docFlag)
	}
}

// readDefinitionFile parses a part definition document. A document without
// any complete part is an error.
func readDefinitionFile(path string) ([]part.Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	defs, err := part.ParseReader(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("%s: no part definitions found", path)
	}
	logger.Debug("definition document parsed", "path", path, "parts", len(defs))
	return defs, nil
}

// readInput loads the markup to migrate from --url, --input or stdin.
func readInput(ctx context.Context, cmd *cobra.Command) (string, error) {
	maxSize, err := maxInputSize(cmd)
	if err != nil {
		return "", err
	}

	if targetURL, _ := cmd.Flags().GetString("url"); targetURL != "" {
		timeout, _ := cmd.Flags().GetDuration("timeout")
		selector, _ := cmd.Flags().GetString("selector")

		f := fetcher.NewStatic(fetcher.StaticConfig{Timeout: timeout})
		content, err := f.Fetch(ctx, targetURL, fetcher.Options{Selector: selector})
		if err != nil {
			return "", fmt.Errorf("fetch %s: %w", targetURL, err)
		}
		logger.Debug("fetched input", "url", content.URL, "status", content.StatusCode,
			"size", humanize.Bytes(uint64(len(content.HTML))))
		if maxSize > 0 && uint64(len(content.HTML)) > maxSize {
			return "", fmt.Errorf("input is %s, larger than --max-input-size %s",
				humanize.Bytes(uint64(len(content.HTML))), humanize.Bytes(maxSize))
		}
		return content.HTML, nil
	}

	var r io.Reader = os.Stdin
	if path, _ := cmd.Flags().GetString("input"); path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	if maxSize > 0 {
		r = io.LimitReader(r, int64(maxSize)+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	if maxSize > 0 && uint64(len(data)) > maxSize {
		return "", fmt.Errorf("input exceeds --max-input-size %s", humanize.Bytes(maxSize))
	}
	return string(data), nil
}

// maxInputSize parses --max-input-size. Zero means unlimited.
func maxInputSize(cmd *cobra.Command) (uint64, error) {
	s, _ := cmd.Flags().GetString("max-input-size")
	if strings.TrimSpace(s) == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid --max-input-size %q: %w", s, err)
	}
	return n, nil
}

// buildNormalizer returns the pruner configured from flags and config, or a
// no-op when pruning is disabled.
func buildNormalizer(cmd *cobra.Command) normalize.Normalizer {
	if noPrune, _ := cmd.Flags().GetBool("no-prune"); noPrune {
		logger.Debug("pruning disabled")
		return normalize.NewNoop()
	}

	cfg := prune.DefaultConfig()
	cfg.KeepClasses = append(cfg.KeepClasses, viper.GetStringSlice("keep_classes")...)
	cfg.KeepTags = append(cfg.KeepTags, viper.GetStringSlice("keep_tags")...)
	logger.Debug("pruner configured", "keep_classes", cfg.KeepClasses, "keep_tags", cfg.KeepTags)
	return prune.New(cfg)
}

// writeResult writes res in the requested format to --output or stdout.
func writeResult(cmd *cobra.Command, res *migrate.Result) error {
	formatStr, _ := cmd.Flags().GetString("format")
	format := output.Format(formatStr)
	opts := writerOptions(cmd)

	if path, _ := cmd.Flags().GetString("output"); path != "" {
		return writeFile(path, format, res, opts...)
	}

	w, err := output.NewWriter(os.Stdout, format, opts...)
	if err != nil {
		return err
	}
	return w.Write(res)
}

// writerOptions maps the output flags to writer options.
func writerOptions(cmd *cobra.Command) []output.WriterOption {
	withStats, _ := cmd.Flags().GetBool("stats")
	indent, _ := cmd.Flags().GetString("indent")
	compact, _ := cmd.Flags().GetBool("compact")

	return []output.WriterOption{
		output.WithStats(withStats),
		output.WithIndent(indent),
		output.WithPretty(!compact),
	}
}

func writeFile(path string, format output.Format, res *migrate.Result, opts ...output.WriterOption) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w, err := output.NewWriter(f, format, opts...)
	if err != nil {
		_ = f.Close()
		return err
	}
	if err := w.Write(res); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

