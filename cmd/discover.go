package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ceverett10/holibob-booking/models"
	"github.com/ceverett10/holibob-booking/services/discovery"
)

func criteriaFlags(c *cobra.Command, where, start, end, search *string, adults, children *int) {
	c.Flags().StringVar(where, "where", "", "free-text location")
	c.Flags().StringVar(start, "start", "", "range start (YYYY-MM-DD or full timestamp)")
	c.Flags().StringVar(end, "end", "", "range end (YYYY-MM-DD or full timestamp)")
	c.Flags().StringVar(search, "search", "", "activity search term")
	c.Flags().IntVar(adults, "adults", 0, "number of adults")
	c.Flags().IntVar(children, "children", 0, "number of children")
}

func buildCriteria(where, start, end, search string, adults, children int) models.SearchCriteria {
	var criteria models.SearchCriteria
	if where != "" {
		criteria.Where = &models.WhereFacet{Text: where}
	}
	if start != "" || end != "" {
		criteria.When = &models.WhenFacet{Start: start, End: end}
	}
	if adults > 0 || children > 0 {
		criteria.Who = &models.WhoFacet{Adults: adults, Children: children}
	}
	if search != "" {
		criteria.What = &models.WhatFacet{SearchTerm: search}
	}
	return criteria
}

func newDiscoverCmd() *cobra.Command {
	var (
		where, start, end, search string
		adults, children          int
		pageSize                  int
	)

	c := &cobra.Command{
		Use:   "discover",
		Short: "Search products by location, dates, travelers and activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := discovery.NewService(newTransport())
			result, err := svc.Discover(cmd.Context(),
				buildCriteria(where, start, end, search, adults, children),
				discovery.Page{Size: pageSize})
			if err != nil {
				return err
			}
			for _, p := range result.Products {
				line := fmt.Sprintf("%s\t%s", p.ID, p.Name)
				if p.GuidePrice != nil {
					line += fmt.Sprintf("\tfrom %.2f %s", p.GuidePrice.From, p.Currency)
				}
				if p.Basic {
					line += "\t(basic)"
				}
				fmt.Println(line)
			}
			fmt.Printf("hasMore=%v (approximate)\n", result.HasMore)
			return nil
		},
	}
	criteriaFlags(c, &where, &start, &end, &search, &adults, &children)
	c.Flags().IntVar(&pageSize, "page-size", 20, "page size")
	return c
}

func newSuggestCmd() *cobra.Command {
	var (
		where, start, end, search string
		adults, children          int
	)

	c := &cobra.Command{
		Use:   "suggest",
		Short: "Typed autocomplete suggestions for partial search input",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := discovery.NewService(newTransport())
			s, err := svc.Suggest(cmd.Context(),
				buildCriteria(where, start, end, search, adults, children))
			if err != nil {
				return err
			}
			if s.Destination != nil {
				fmt.Printf("destination: %s (%s)\n", s.Destination.Name, s.Destination.ID)
			}
			for _, d := range s.Destinations {
				fmt.Printf("destination: %s (%s)\n", d.Name, d.ID)
			}
			for _, t := range s.Tags {
				fmt.Printf("tag: %s\n", t)
			}
			for _, t := range s.SearchTerms {
				fmt.Printf("search: %s\n", t)
			}
			return nil
		},
	}
	criteriaFlags(c, &where, &start, &end, &search, &adults, &children)
	return c
}
