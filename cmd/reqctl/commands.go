package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rpggio/reqindex/internal/app"
	"github.com/rpggio/reqindex/internal/domain/request"
	"github.com/spf13/cobra"
)

func newListCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every request in store order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return flags.withService(cmd, func(ctx context.Context, svc *request.Service) error {
				reqs, err := svc.GetAll(ctx)
				if err != nil {
					return err
				}
				return printRequests(cmd.OutOrStdout(), flags.jsonOut, reqs)
			})
		},
	}
}

func newGetCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one request and everything it depends on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return flags.withService(cmd, func(ctx context.Context, svc *request.Service) error {
				details, ok, err := svc.GetDetails(ctx, id)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("%w: %d", request.ErrRequestNotFound, id)
				}
				out := cmd.OutOrStdout()
				if flags.jsonOut {
					return writeJSON(out, details)
				}
				printDetail(out, details.Request)
				fmt.Fprintf(out, "\nDepends on (%d):\n", len(details.Dependencies))
				return printTable(out, details.Dependencies)
			})
		},
	}
}

func newPriorityCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "priority",
		Short: "List every request, most urgent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return flags.withService(cmd, func(ctx context.Context, svc *request.Service) error {
				reqs, err := svc.GetByPriority(ctx)
				if err != nil {
					return err
				}
				return printRequests(cmd.OutOrStdout(), flags.jsonOut, reqs)
			})
		},
	}
}

func newDepsCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "deps <id>",
		Short: "List the requests reachable through dependency links, nearest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return flags.withService(cmd, func(ctx context.Context, svc *request.Service) error {
				deps, err := svc.GetDependencyClosure(ctx, id)
				if err != nil {
					return err
				}
				return printRequests(cmd.OutOrStdout(), flags.jsonOut, deps)
			})
		},
	}
}

func newSearchCommand(flags *rootFlags) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "search [term]",
		Short: "Search by request ID or by text",
		Long: `Search requests.

A numeric term is an exact ID lookup. Any other term is matched, ignoring
case, against category, location and description.

Examples:
  reqctl search 12
  reqctl search "street light"
  reqctl search pothole --category Roads`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := ""
			if len(args) == 1 {
				term = args[0]
			}
			return flags.withService(cmd, func(ctx context.Context, svc *request.Service) error {
				result, err := svc.Search(ctx, term, category)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if flags.jsonOut {
					return writeJSON(out, result)
				}
				if result.IsFiltered() {
					fmt.Fprintf(out, "%d result(s) for term=%q category=%q\n", result.TotalResults, result.SearchTerm, result.CategoryFilter)
				}
				return printTable(out, result.Results)
			})
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "narrow to one category (All for every category)")
	return cmd
}

func newCategoriesCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the distinct request categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return flags.withService(cmd, func(ctx context.Context, svc *request.Service) error {
				categories, err := svc.GetAllCategories(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if flags.jsonOut {
					return writeJSON(out, categories)
				}
				for _, c := range categories {
					fmt.Fprintln(out, c)
				}
				return nil
			})
		},
	}
}

func newStatsCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show request counts and average response time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return flags.withService(cmd, func(ctx context.Context, svc *request.Service) error {
				st, err := svc.Stats(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if flags.jsonOut {
					return writeJSON(out, st)
				}
				fmt.Fprintf(out, "Total:          %d\n", st.Total)
				fmt.Fprintf(out, "Open:           %d\n", st.Open)
				fmt.Fprintf(out, "Resolved:       %d\n", st.Resolved)
				fmt.Fprintf(out, "Avg response:   %.1fh\n", st.AverageResponseHours)
				return nil
			})
		},
	}
}

func newSeedCommand(flags *rootFlags) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load fixtures into an empty store",
		Long: `Load service request fixtures into the store. Nothing is written when the
store already holds requests. Without --file the built-in fixtures are used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.config()
			if err != nil {
				return err
			}
			cfg.Seed.Enabled = false
			logger := flags.logger(cmd)

			db, err := app.OpenStore(cmd.Context(), cfg, logger)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer db.Close()

			n, err := app.Seed(cmd.Context(), db, file, logger)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if flags.jsonOut {
				return writeJSON(out, map[string]int{"created": n})
			}
			fmt.Fprintf(out, "created %d request(s)\n", n)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML fixture file")
	return cmd
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q is not a request id", request.ErrInvalidInput, arg)
	}
	return id, nil
}

func printRequests(w io.Writer, jsonOut bool, reqs []*request.Request) error {
	if jsonOut {
		return writeJSON(w, reqs)
	}
	return printTable(w, reqs)
}

func printTable(w io.Writer, reqs []*request.Request) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRI\tSTATUS\tCATEGORY\tLOCATION\tREPORTED")
	for _, r := range reqs {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\n",
			r.ID, r.Priority, r.Status, r.Category, r.Location, r.ReportedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func printDetail(w io.Writer, r *request.Request) {
	fmt.Fprintf(w, "ID:           %d\n", r.ID)
	fmt.Fprintf(w, "Priority:     %d\n", r.Priority)
	fmt.Fprintf(w, "Status:       %s\n", r.Status)
	fmt.Fprintf(w, "Category:     %s\n", r.Category)
	fmt.Fprintf(w, "Location:     %s\n", r.Location)
	fmt.Fprintf(w, "Reported:     %s\n", r.ReportedAt.Format("2006-01-02 15:04:05"))
	if r.AssignedTo != "" {
		fmt.Fprintf(w, "Assigned to:  %s\n", r.AssignedTo)
	}
	fmt.Fprintf(w, "Description:  %s\n", r.Description)
}
