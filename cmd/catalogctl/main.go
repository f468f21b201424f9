// catalogctl is the terminal client for the portfolio catalog: it fetches
// and caches the project list, narrows it with the named filters or a
// search term, and administers the catalog once admin mode is enabled.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rpupo63/portfolio-catalog-backend/client"
	"github.com/rpupo63/portfolio-catalog-backend/models"
)

var serverURL string

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	root := &cobra.Command{
		Use:          "catalogctl",
		Short:        "Browse and administer the project portfolio catalog",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "catalog server base URL")

	root.AddCommand(
		newListCmd(),
		newGetCmd(),
		newStatsCmd(),
		newHealthCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newCreateCmd(),
		newUpdateCmd(),
		newDeleteCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup builds the gate, API client and catalog shared by the commands.
func setup() (*client.AdminGate, *client.API, *client.Catalog, error) {
	statePath, err := client.DefaultStatePath()
	if err != nil {
		return nil, nil, nil, err
	}
	gate := client.NewAdminGate(statePath, client.WithConfirm(promptConfirm))
	api := client.NewAPI(serverURL, client.WithTokenSource(gate.Token))
	catalog := client.NewCatalog(api, client.WithLoadingHook(func(loading bool) {
		if loading {
			fmt.Fprintln(os.Stderr, "Loading projects...")
		}
	}))
	return gate, api, catalog, nil
}

func promptConfirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func newListCmd() *cobra.Command {
	var filter, search, group string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			gate, _, catalog, err := setup()
			if err != nil {
				return err
			}
			if err := catalog.Refresh(cmd.Context()); err != nil {
				return err
			}

			if group != "" {
				groups := catalog.CompanyGroups(group)
				printProjects(groups[group], gate.Enabled())
				return nil
			}

			if filter != "" {
				catalog.ApplyFilter(client.Filter(filter))
			}
			if search != "" {
				catalog.ApplySearch(search)
			}
			printProjects(catalog.Visible(), gate.Enabled())
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "filter: all, ongoing, completed, commercial, residential")
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive search term (overrides --filter)")
	cmd.Flags().StringVar(&group, "company", "", "show only projects of this company")
	return cmd
}

func printProjects(projects []models.Project, adminMode bool) {
	if len(projects) == 0 {
		fmt.Println("No projects found.")
		return
	}
	for _, p := range projects {
		line := fmt.Sprintf("%-36s  %-10s  %-40s  %s (%s)", p.ID, p.Status, p.Title, p.Company, p.Type)
		if adminMode {
			line += "  [edit/delete available]"
		}
		fmt.Println(line)
	}
	fmt.Printf("%d project(s)\n", len(projects))
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, api, _, err := setup()
			if err != nil {
				return err
			}
			project, err := api.FetchProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s\n%s, %s\n", project.Title, project.Company, project.Location)
			fmt.Printf("type: %s  status: %s  value: %s\n", project.Type, project.Status, project.Value)
			if len(project.Technologies) > 0 {
				fmt.Printf("technologies: %s\n", strings.Join(project.Technologies, ", "))
			}
			if project.Description != "" {
				fmt.Println(project.Description)
			}
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, api, _, err := setup()
			if err != nil {
				return err
			}
			stats, err := api.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("total: %d  ongoing: %d  completed: %d\n", stats.Total, stats.Ongoing, stats.Completed)
			fmt.Printf("residential: %d  commercial: %d  total budget: %.2f\n", stats.Residential, stats.Commercial, stats.TotalBudget)
			return nil
		},
	}
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server and store health",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, api, _, err := setup()
			if err != nil {
				return err
			}
			health, err := api.Health(cmd.Context())
			if err != nil {
				return err
			}
			for key, value := range health {
				fmt.Printf("%s: %v\n", key, value)
			}
			return nil
		},
	}
}

func newLoginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Enable admin mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			gate, api, _, err := setup()
			if err != nil {
				return err
			}
			result, err := api.Login(cmd.Context(), password)
			if err != nil {
				return err
			}
			if err := gate.Enable(result.Token, result.ExpiresAt); err != nil {
				return err
			}
			fmt.Printf("Admin mode enabled until %s\n", result.ExpiresAt.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Disable admin mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			gate, _, _, err := setup()
			if err != nil {
				return err
			}
			if err := gate.Disable(); err != nil {
				return err
			}
			fmt.Println("Admin mode disabled")
			return nil
		},
	}
}

func projectFormFlags(cmd *cobra.Command, form *client.ProjectForm) {
	var technologies string
	cmd.Flags().StringVar(&form.Title, "title", "", "project title")
	cmd.Flags().StringVar(&form.Company, "project-company", "", "company")
	cmd.Flags().StringVar(&form.Location, "location", "", "location")
	cmd.Flags().StringVar(&form.Value, "value", "", "display value")
	cmd.Flags().StringVar(&form.Type, "type", "", "project type")
	cmd.Flags().StringVar(&form.Status, "status", "", "status: ongoing, completed, planned, on-hold")
	cmd.Flags().StringVar(&form.Description, "description", "", "description")
	cmd.Flags().StringVar(&technologies, "technologies", "", "comma-separated technologies")
	cmd.Flags().StringVar(&form.TeamSize, "team-size", "", "team size")
	cmd.Flags().StringVar(&form.Budget, "budget", "", "budget")
	cmd.Flags().StringVar(&form.StartDate, "start-date", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&form.EndDate, "end-date", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&form.ImageFile, "image", "", "path to an image file to upload")

	prev := cmd.PreRunE
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if prev != nil {
			if err := prev(cmd, args); err != nil {
				return err
			}
		}
		form.Technologies = models.ParseTechnologies(technologies)
		return nil
	}
}

func requireAdmin(gate *client.AdminGate) error {
	if !gate.Enabled() {
		return fmt.Errorf("admin mode is off; run `catalogctl login` first")
	}
	return nil
}

func newCreateCmd() *cobra.Command {
	var form client.ProjectForm

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			gate, api, _, err := setup()
			if err != nil {
				return err
			}
			if err := requireAdmin(gate); err != nil {
				return err
			}
			project, err := api.CreateProject(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Printf("Created project %s\n", project.ID)
			return nil
		},
	}
	projectFormFlags(cmd, &form)
	return cmd
}

func newUpdateCmd() *cobra.Command {
	var form client.ProjectForm

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a project (admin); omitted fields are cleared",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gate, api, _, err := setup()
			if err != nil {
				return err
			}
			if err := requireAdmin(gate); err != nil {
				return err
			}
			project, err := api.UpdateProject(cmd.Context(), args[0], form)
			if err != nil {
				return err
			}
			fmt.Printf("Updated project %s\n", project.ID)
			return nil
		},
	}
	projectFormFlags(cmd, &form)
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project (admin, asks for confirmation)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gate, api, catalog, err := setup()
			if err != nil {
				return err
			}
			if err := requireAdmin(gate); err != nil {
				return err
			}

			name := args[0]
			if err := catalog.Refresh(cmd.Context()); err == nil {
				for _, p := range catalog.All() {
					if p.ID.String() == args[0] {
						name = fmt.Sprintf("%q", p.Title)
						break
					}
				}
			}

			if !gate.ConfirmDestructive(fmt.Sprintf("Delete project %s? This cannot be undone.", name)) {
				fmt.Println("Aborted.")
				return nil
			}

			if err := api.DeleteProject(cmd.Context(), args[0]); err != nil {
				return err
			}

			// Refresh so the cached view reflects the deletion.
			if err := catalog.Refresh(context.Background()); err != nil {
				log.Warn().Err(err).Msg("refresh after delete failed")
			}
			fmt.Println("Project deleted.")
			return nil
		},
	}
}
