package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"flarepie/internal/burn"
	"flarepie/internal/config"
	"flarepie/internal/project"
	"flarepie/internal/sim"
	"flarepie/internal/telemetry"
)

var (
	projectDir         string
	projectDescription string
	projectTags        []string
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage saved engine projects",
}

func openProjects(cmd *cobra.Command) (*project.Manager, error) {
	dir := projectDir
	if !cmd.Flags().Changed("dir") {
		dir = userSettings.String("projects.dir")
	}
	return project.Open(dir)
}

var projectCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a project seeded with the default engine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openProjects(cmd)
		if err != nil {
			return err
		}
		p, err := m.Create(args[0], projectDescription, projectTags)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), p.ID)
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openProjects(cmd)
		if err != nil {
			return err
		}
		printProjects(cmd.OutOrStdout(), m.List())
		return nil
	},
}

var projectSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search project names, descriptions and tags",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openProjects(cmd)
		if err != nil {
			return err
		}
		printProjects(cmd.OutOrStdout(), m.Search(args[0]))
		return nil
	},
}

var projectConfigsCmd = &cobra.Command{
	Use:   "configs <project-id>",
	Short: "List engine configurations in a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openProjects(cmd)
		if err != nil {
			return err
		}
		names, err := m.Configs(args[0])
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Fprintln(cmd.OutOrStdout(), n)
		}
		return nil
	},
}

var projectSaveCmd = &cobra.Command{
	Use:   "save <project-id> <engine.yaml>",
	Short: "Validate an engine file and store it in a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openProjects(cmd)
		if err != nil {
			return err
		}
		cfg, err := config.Load(args[1], "")
		if err != nil {
			return err
		}
		if cfg.Name == "" {
			return fmt.Errorf("%s: engine needs a name to be stored", args[1])
		}
		return m.SaveConfig(args[0], *cfg)
	},
}

var projectRunCmd = &cobra.Command{
	Use:   "run <project-id> <config>",
	Short: "Simulate a stored engine configuration and print its summary",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openProjects(cmd)
		if err != nil {
			return err
		}
		cfg, err := m.LoadConfig(args[0], args[1])
		if err != nil {
			return err
		}
		sum, err := runQuiet(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), sum.String())
		return nil
	},
}

// runQuiet simulates cfg without per-sample output.
func runQuiet(ctx context.Context, cfg *config.Engine) (burn.Summary, error) {
	r, err := sim.NewRunner(cfg, discardWriter{}, 0)
	if err != nil {
		return burn.Summary{}, err
	}
	return r.Run(ctx)
}

type discardWriter struct{}

func (discardWriter) Write(telemetry.SampleRow) error        { return nil }
func (discardWriter) WriteBatch([]telemetry.SampleRow) error { return nil }

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <project-id>",
	Short: "Delete a project and its files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openProjects(cmd)
		if err != nil {
			return err
		}
		return m.Delete(args[0])
	},
}

var projectExportCmd = &cobra.Command{
	Use:   "export <project-id> <archive.zip>",
	Short: "Export a project to a zip archive",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openProjects(cmd)
		if err != nil {
			return err
		}
		return m.Export(args[0], args[1])
	},
}

var projectImportCmd = &cobra.Command{
	Use:   "import <archive.zip>",
	Short: "Import a project archive under a new id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openProjects(cmd)
		if err != nil {
			return err
		}
		p, err := m.Import(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), p.ID)
		return nil
	},
}

func printProjects(w io.Writer, ps []project.Project) {
	for _, p := range ps {
		tags := ""
		if len(p.Tags) > 0 {
			tags = " [" + strings.Join(p.Tags, ", ") + "]"
		}
		fmt.Fprintf(w, "%s\t%s\t%d configs\t%s%s\n", p.ID, p.Name, len(p.Configs), p.Modified.Format("2006-01-02 15:04"), tags)
	}
}

func init() {
	projectCmd.PersistentFlags().StringVar(&projectDir, "dir", "projects", "Projects directory (defaults to the projects.dir setting)")
	projectCreateCmd.Flags().StringVar(&projectDescription, "description", "", "Project description")
	projectCreateCmd.Flags().StringSliceVar(&projectTags, "tag", nil, "Project tag (repeatable)")

	projectCmd.AddCommand(projectCreateCmd, projectListCmd, projectSearchCmd, projectConfigsCmd,
		projectSaveCmd, projectRunCmd, projectDeleteCmd, projectExportCmd, projectImportCmd)
}
