package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/markshift/internal/logger"
	"github.com/jmylchreest/markshift/internal/registry"
	"github.com/jmylchreest/markshift/pkg/part"
)

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "Manage the site registry",
}

var sitesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered sites",
	Args:  cobra.NoArgs,
	RunE:  runSitesList,
}

var sitesShowCmd = &cobra.Command{
	Use:   "show SITE",
	Short: "Print a site and its parts",
	Args:  cobra.ExactArgs(1),
	RunE:  runSitesShow,
}

var sitesImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Register a site from a part definition document",
	Args:  cobra.ExactArgs(1),
	RunE:  runSitesImport,
}

var sitesRemoveCmd = &cobra.Command{
	Use:   "remove SITE",
	Short: "Remove a site from the registry",
	Args:  cobra.ExactArgs(1),
	RunE:  runSitesRemove,
}

var sitesInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the built-in sites into the registry file",
	Args:  cobra.NoArgs,
	RunE:  runSitesInit,
}

func init() {
	rootCmd.AddCommand(sitesCmd)
	sitesCmd.AddCommand(sitesListCmd, sitesShowCmd, sitesImportCmd, sitesRemoveCmd, sitesInitCmd)

	sitesShowCmd.Flags().String("format", "yaml", "output format: yaml, json")

	flags := sitesImportCmd.Flags()
	flags.String("id", "", "site ID")
	flags.String("name", "", "display name (default: the ID)")
	flags.Bool("replace", false, "replace an existing site with the same ID")
	_ = sitesImportCmd.MarkFlagRequired("id")
}

func runSitesList(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry(true)
	if err != nil {
		logError("%v", err)
		return err
	}

	sites := reg.List()
	if len(sites) == 0 {
		logInfo("No sites in %s", reg.Path())
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Name", "Parts"})
	for _, s := range sites {
		t.AppendRow(table.Row{s.ID, s.Name, len(s.Parts)})
	}
	t.Render()
	return nil
}

func runSitesShow(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry(true)
	if err != nil {
		logError("%v", err)
		return err
	}

	site, err := reg.Site(args[0])
	if err != nil {
		logError("%v", err)
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	return encode(os.Stdout, format, site)
}

func runSitesImport(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetString("id")
	name, _ := cmd.Flags().GetString("name")
	replace, _ := cmd.Flags().GetBool("replace")
	if name == "" {
		name = id
	}

	defs, err := readDefinitionFile(args[0])
	if err != nil {
		logError("%v", err)
		return err
	}

	// Built-ins stay out of the file unless written by "sites init".
	reg, err := loadRegistry(false)
	if err != nil {
		logError("%v", err)
		return err
	}

	if siteExists(reg, id) && !replace {
		err := fmt.Errorf("site %q already exists (use --replace)", id)
		logError("%v", err)
		return err
	}

	site := part.Site{ID: id, Name: name, Parts: defs}
	if err := reg.Upsert(site); err != nil {
		logError("%v", err)
		return err
	}
	if err := reg.Save(); err != nil {
		logger.Error("failed to save registry", "path", reg.Path(), "error", err)
		return err
	}

	logInfo("Imported %s with %d parts into %s", siteLabel(site), len(defs), reg.Path())
	return nil
}

func runSitesRemove(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry(false)
	if err != nil {
		logError("%v", err)
		return err
	}

	if err := reg.Remove(args[0]); err != nil {
		if errors.Is(err, registry.ErrSiteNotFound) {
			logError("%v (built-in sites cannot be removed, use --no-defaults)", err)
		} else {
			logError("%v", err)
		}
		return err
	}
	if err := reg.Save(); err != nil {
		logger.Error("failed to save registry", "path", reg.Path(), "error", err)
		return err
	}

	logInfo("Removed %s from %s", args[0], reg.Path())
	return nil
}

func runSitesInit(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry(false)
	if err != nil {
		logError("%v", err)
		return err
	}

	defaults, err := registry.Defaults()
	if err != nil {
		logError("%v", err)
		return err
	}
	sites, parts := reg.MergeDefaults(defaults)
	if err := reg.Save(); err != nil {
		logger.Error("failed to save registry", "path", reg.Path(), "error", err)
		return err
	}

	logInfo("Added %d sites and %d parts to %s", sites, parts, reg.Path())
	return nil
}

// siteLabel formats a site for messages.
func siteLabel(s part.Site) string {
	if s.Name == "" || s.Name == s.ID {
		return s.ID
	}
	return fmt.Sprintf("%s (%s)", s.ID, s.Name)
}

func siteExists(reg *registry.Registry, id string) bool {
	for _, s := range reg.List() {
		if s.ID == id {
			return true
		}
	}
	return false
}
