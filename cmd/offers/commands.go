package main

import (
	"os"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/honeycarbs/offerscout/internal/domain"
	"github.com/honeycarbs/offerscout/internal/mcp/tools"
)

// bindFilterFlags registers the search filter flags on cmd
func bindFilterFlags(cmd *cobra.Command, f *tools.FiltersInput) {
	flags := cmd.Flags()
	flags.StringVarP(&f.Location, "location", "l", "", "City, department or country")
	flags.StringSliceVar(&f.ContractTypes, "contract", nil, "Contract types (CDI, CDD, Stage, Freelance, Alternance, Temps partiel)")
	flags.StringSliceVar(&f.ExperienceLevels, "experience", nil, "Experience levels (Débutant, Junior, Confirmé, Senior, Expert)")
	flags.BoolVar(&f.RemoteOnly, "remote", false, "Only remote-friendly offers")
	flags.Float64Var(&f.SalaryMin, "salary-min", 0, "Minimum yearly salary")
	flags.Float64Var(&f.SalaryMax, "salary-max", 0, "Maximum yearly salary")
	flags.IntVar(&f.PublishedWithinDays, "days", 0, "Only offers published in the last N days")
	flags.StringSliceVar(&f.Sources, "source", nil, "Restrict to adzuna, jsearch or france_travail")
}

func newSearchCommand(opts *rootOptions) *cobra.Command {
	var (
		filters tools.FiltersInput
		page    int
	)

	cmd := &cobra.Command{
		Use:   "search [keywords...]",
		Short: "Search offers across every configured provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			filters.Query = strings.Join(args, " ")
			res, err := opts.call(cmd.Context(), "search_offers", map[string]any{"filters": filters, "page": page})
			if err != nil {
				return err
			}
			return printOffers(opts, res)
		},
	}
	bindFilterFlags(cmd, &filters)
	cmd.Flags().IntVarP(&page, "page", "p", 1, "1-based page number")
	return cmd
}

func newCVCommand(opts *rootOptions) *cobra.Command {
	var (
		location string
		page     int
	)

	cmd := &cobra.Command{
		Use:   "cv keyword [keyword...]",
		Short: "Search recent offers matching CV keywords",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := opts.call(cmd.Context(), "search_offers_for_cv", map[string]any{
				"keywords": args,
				"location": location,
				"page":     page,
			})
			if err != nil {
				return err
			}
			return printOffers(opts, res)
		},
	}
	cmd.Flags().StringVarP(&location, "location", "l", "", "Location, defaults to France")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "1-based page number")
	return cmd
}

func newRecentCommand(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently saved searches",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := opts.call(cmd.Context(), "recent_searches", map[string]any{"limit": limit})
			if err != nil {
				return err
			}
			out, err := decode[tools.RecentSearchesResult](res)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(out)
			}
			renderSearches(os.Stdout, out.Searches)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of searches")
	return cmd
}

func newStatsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show saved search counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := opts.call(cmd.Context(), "cache_stats", map[string]any{})
			if err != nil {
				return err
			}
			stats, err := decode[domain.CacheStats](res)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(stats)
			}
			renderStats(os.Stdout, stats)
			return nil
		},
	}
}

func newInvalidateCommand(opts *rootOptions) *cobra.Command {
	var filters tools.FiltersInput

	cmd := &cobra.Command{
		Use:   "invalidate [keywords...]",
		Short: "Drop the saved result of one search",
		RunE: func(cmd *cobra.Command, args []string) error {
			filters.Query = strings.Join(args, " ")
			res, err := opts.call(cmd.Context(), "invalidate_search", map[string]any{"filters": filters})
			if err != nil {
				return err
			}
			cmd.Println(resultText(res))
			return nil
		},
	}
	bindFilterFlags(cmd, &filters)
	return cmd
}

func newClearCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty both caches",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := opts.call(cmd.Context(), "clear_caches", map[string]any{})
			if err != nil {
				return err
			}
			cmd.Println(resultText(res))
			return nil
		},
	}
}

func printOffers(opts *rootOptions, res *sdkmcp.CallToolResult) error {
	result, err := decode[domain.SearchResult](res)
	if err != nil {
		return err
	}
	if opts.json {
		return printJSON(result)
	}
	renderOffers(os.Stdout, result)
	return nil
}
