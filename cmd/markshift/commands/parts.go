package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/markshift/internal/logger"
	"github.com/jmylchreest/markshift/pkg/part"
	"github.com/jmylchreest/markshift/pkg/pattern"
)

var partsCmd = &cobra.Command{
	Use:   "parts",
	Short: "Work with part definition documents",
	Long: `Work with part definition documents.

A definition document lists parts as Markdown-like sections:

  # button
  ## Pattern
  <a class="btn" href="{{url}}">{{label}}</a>

Lines between "## Pattern" and the next "# " heading form the pattern.`,
}

var partsParseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Parse a definition document and print its parts",
	Args:  cobra.ExactArgs(1),
	RunE:  runPartsParse,
}

var partsCheckCmd = &cobra.Command{
	Use:   "check FILE",
	Short: "Compile every pattern in a definition document",
	Args:  cobra.ExactArgs(1),
	RunE:  runPartsCheck,
}

func init() {
	rootCmd.AddCommand(partsCmd)
	partsCmd.AddCommand(partsParseCmd, partsCheckCmd)

	partsParseCmd.Flags().String("format", "yaml", "output format: yaml, json")
}

func runPartsParse(cmd *cobra.Command, args []string) error {
	defs, err := readDefinitionFile(args[0])
	if err != nil {
		logError("%v", err)
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	return encode(os.Stdout, format, defs)
}

func runPartsCheck(cmd *cobra.Command, args []string) error {
	defs, err := readDefinitionFile(args[0])
	if err != nil {
		logError("%v", err)
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Part", "Kind", "Placeholders"})

	var errs []error
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("part %q: %w", d.Name, err))
			continue
		}
		compiled, err := pattern.Compile(d.Pattern)
		if err != nil {
			errs = append(errs, fmt.Errorf("part %q: %w", d.Name, err))
			continue
		}

		kind := "pattern"
		if c, ok := pattern.AnalyzeContainer(d.Pattern); ok {
			kind = "container <" + c.Tag + ">"
		}
		logger.Debug("part compiled", "part", d.Name, "regex", compiled.Matcher.String())
		t.AppendRow(table.Row{d.Name, kind, placeholderList(compiled.Placeholders)})
	}
	if t.Length() > 0 {
		t.Render()
	}

	if dupes := duplicateNames(defs); len(dupes) > 0 {
		logInfo("Duplicate part names, first definition wins: %s", strings.Join(dupes, ", "))
	}

	if err := errors.Join(errs...); err != nil {
		logError("%v", err)
		return err
	}
	logInfo("%d parts OK", len(defs))
	return nil
}

func duplicateNames(defs []part.Definition) []string {
	seen := make(map[string]int, len(defs))
	var dupes []string
	for _, d := range defs {
		seen[d.Name]++
		if seen[d.Name] == 2 {
			dupes = append(dupes, d.Name)
		}
	}
	return dupes
}

func placeholderList(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return "{{" + strings.Join(names, "}} {{") + "}}"
}
