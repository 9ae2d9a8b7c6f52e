package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lilykang127/connect-ltv/internal/domain/search/result"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the directory",
	Long: `Search the directory with a free-text description of the expertise you need.

Examples:
  connectctl search "fintech growth"
  connectctl search --limit 25 "enterprise SaaS operations"
  connectctl search --json "restaurant finance"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (default: search.default_limit)")
}

type searchItem struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Position     string `json:"position"`
	Organization string `json:"organization"`
	Email        string `json:"email"`
	ProfileURL   string `json:"profile_url"`
	Relevance    string `json:"relevance"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	query := strings.Join(args, " ")
	results, err := a.Search.Search(ctx, query, searchLimit)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeSearchJSON(out, results)
	}
	if len(results) == 0 {
		fmt.Fprintln(out, "No matching alumni found.")
		return nil
	}
	return writeSearchTable(out, results)
}

func writeSearchJSON(w io.Writer, results []result.SearchResult) error {
	items := make([]searchItem, len(results))
	for i := range results {
		r := &results[i]
		items[i] = searchItem{
			ID:           r.ID(),
			Name:         r.Name(),
			Position:     r.Position(),
			Organization: r.Organization(),
			Email:        r.Email(),
			ProfileURL:   r.ProfileURL(),
			Relevance:    r.Relevance(),
		}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(items)
}

func writeSearchTable(w io.Writer, results []result.SearchResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPOSITION\tORGANIZATION\tEMAIL")
	for i := range results {
		r := &results[i]
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", r.ID(), r.Name(), r.Position(), r.Organization(), r.Email())
		if r.Relevance() != "" {
			fmt.Fprintf(tw, "\t  %s\t\t\t\n", r.Relevance())
		}
	}
	return tw.Flush()
}
