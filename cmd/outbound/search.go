package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/autotouch/outbound/internal/collector"
	"github.com/autotouch/outbound/internal/config"
	"github.com/autotouch/outbound/internal/jobs"
	"github.com/autotouch/outbound/internal/model"
	"github.com/autotouch/outbound/internal/titles"
)

// searchFlags are the search options shared by send, compare and review.
// Unset flags fall back to the search section of the config.
type searchFlags struct {
	window       string
	employeesLTE int
	employeesGTE int
	keywords     []string
	limit        int
	sources      []string
	titleSet     string
}

func (f *searchFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.window, "window", "24h", "time window to query: 24h or 7d")
	fl.IntVar(&f.employeesLTE, "employees-lte", 0, "max company headcount")
	fl.IntVar(&f.employeesGTE, "employees-gte", 0, "min company headcount")
	fl.StringArrayVar(&f.keywords, "keywords", nil, "description keywords; repeatable, comma or semicolon separated")
	fl.IntVar(&f.limit, "limit", 50, "limit per source per keyword")
	fl.StringSliceVar(&f.sources, "sources", nil, "sources to query, in order (default from config: linkedin,active_jobs_db)")
	fl.StringVar(&f.titleSet, "title-set", "", "title set to search: "+strings.Join(titles.Names(), ", ")+" (default from config: sdr)")
}

// search is a resolved set of search options.
type search struct {
	query    collector.Query
	sources  []string
	titleSet string
	titles   []string
}

func (f *searchFlags) resolve(cmd *cobra.Command, cfg *config.Config) (search, error) {
	fl := cmd.Flags()
	s := search{
		query: collector.Query{
			Window:       cfg.Search.Window,
			Limit:        cfg.Search.Limit,
			EmployeesLTE: cfg.Search.EmployeesLTE,
			EmployeesGTE: cfg.Search.EmployeesGTE,
		},
		sources:  cfg.Search.Sources,
		titleSet: cfg.Search.TitleSet,
	}
	keywords := cfg.Search.Keywords

	if fl.Changed("window") {
		s.query.Window = model.Window(f.window)
	}
	if !s.query.Window.Valid() {
		return search{}, fmt.Errorf("--window must be 24h or 7d, got %q", s.query.Window)
	}
	if fl.Changed("limit") {
		s.query.Limit = f.limit
	}
	if s.query.Limit <= 0 {
		return search{}, fmt.Errorf("--limit must be positive, got %d", s.query.Limit)
	}
	if fl.Changed("employees-lte") {
		s.query.EmployeesLTE = &f.employeesLTE
	}
	if fl.Changed("employees-gte") {
		s.query.EmployeesGTE = &f.employeesGTE
	}
	if fl.Changed("keywords") {
		keywords = f.keywords
	}
	if fl.Changed("sources") {
		s.sources = f.sources
	}
	if fl.Changed("title-set") {
		s.titleSet = f.titleSet
	}

	list, err := titles.Lookup(s.titleSet)
	if err != nil {
		return search{}, err
	}
	s.titles = list
	s.query.TitleFilter = titles.ToORQuery(list)
	s.query.Keywords = jobs.NormalizeKeywords(keywords)
	return s, nil
}
