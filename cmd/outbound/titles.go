package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/autotouch/outbound/internal/rapidapi"
	"github.com/autotouch/outbound/internal/titles"
)

var titlesCmd = &cobra.Command{
	Use:   "titles",
	Short: "Inspect title sets and suggest job titles",
}

var titlesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in title sets",
	Args:  cobra.NoArgs,
	RunE:  runTitlesList,
}

var titlesQueryCmd = &cobra.Command{
	Use:   "query <set>",
	Short: "Print the OR query sent to the job boards for a title set",
	Args:  cobra.ExactArgs(1),
	RunE:  runTitlesQuery,
}

var titlesSuggestCmd = &cobra.Command{
	Use:   "suggest <query>",
	Short: "Suggest job titles via the Apollo API",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTitlesSuggest,
}

func init() {
	titlesCmd.AddCommand(titlesListCmd, titlesQueryCmd, titlesSuggestCmd)
	rootCmd.AddCommand(titlesCmd)
}

func runTitlesList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-8s %s\n", "Set", "Titles")
	fmt.Fprintln(out, strings.Repeat("─", 20))
	for _, name := range titles.Names() {
		list, _ := titles.Lookup(name)
		fmt.Fprintf(out, "%-8s %d\n", name, len(list))
	}
	return nil
}

func runTitlesQuery(cmd *cobra.Command, args []string) error {
	list, err := titles.Lookup(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), titles.ToORQuery(list))
	return nil
}

func runTitlesSuggest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	client, err := rapidapi.NewApolloClient(cfg.RapidAPI.APIKey, cfg.RapidAPI.ApolloHost,
		&http.Client{Timeout: cfg.RapidAPI.Timeout})
	if err != nil {
		return err
	}
	resp, err := client.SuggestJobTitles(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	return printJSON(cmd, resp)
}
