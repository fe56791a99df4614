package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ceverett10/holibob-booking/services/catalog"
	"github.com/ceverett10/holibob-booking/utils"
)

// redisCache switches the catalog cache from the in-process store to the
// shared Redis store, so repeated CLI invocations reuse warm entries.
var redisCache bool

func newCatalogCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "catalog",
		Short: "Read-only catalog lookups: categories, places, providers",
	}
	c.PersistentFlags().BoolVar(&redisCache, "redis-cache", false, "cache catalog reads in Redis instead of memory")
	c.AddCommand(newCatalogCategoriesCmd())
	c.AddCommand(newCatalogPlacesCmd())
	c.AddCommand(newCatalogProvidersCmd())
	c.AddCommand(newCatalogProviderProductsCmd())
	return c
}

func newCatalogService() *catalog.DefaultCatalogService {
	t := newTransport()
	var store utils.KeyValueStore = utils.NewMemoryStore()
	if redisCache {
		store = utils.NewRedisStore(utils.GetCacheClient())
	}
	return catalog.NewService(t, store)
}

func newCatalogCategoriesCmd() *cobra.Command {
	var placeID string
	c := &cobra.Command{
		Use:   "categories",
		Short: "List product categories, optionally scoped by place",
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, err := newCatalogService().Categories(cmd.Context(), placeID)
			if err != nil {
				return err
			}
			for _, cat := range categories {
				fmt.Printf("%s\t%s\n", cat.ID, cat.Name)
			}
			return nil
		},
	}
	c.Flags().StringVar(&placeID, "place", "", "scope to a place id")
	return c
}

func newCatalogPlacesCmd() *cobra.Command {
	var parentID, placeType string
	c := &cobra.Command{
		Use:   "places",
		Short: "List places, optionally scoped by parent and type",
		RunE: func(cmd *cobra.Command, args []string) error {
			places, err := newCatalogService().Places(cmd.Context(), parentID, placeType)
			if err != nil {
				return err
			}
			for _, p := range places {
				fmt.Printf("%s\t%s\t%s\n", p.ID, p.Name, p.Type)
			}
			return nil
		},
	}
	c.Flags().StringVar(&parentID, "parent", "", "parent place id")
	c.Flags().StringVar(&placeType, "type", "", "place type (COUNTRY, REGION, CITY, ...)")
	return c
}

func newCatalogProvidersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List suppliers with product counts (aggregate provider tree)",
		RunE: func(cmd *cobra.Command, args []string) error {
			providers, err := newCatalogService().Providers(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range providers {
				fmt.Printf("%s\t%s\t%d products\n", p.ID, p.Label, p.ProductCount)
			}
			return nil
		},
	}
}

func newCatalogProviderProductsCmd() *cobra.Command {
	var providerID string
	c := &cobra.Command{
		Use:   "provider-products",
		Short: "List every product of one provider (single unpaginated fetch)",
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := newCatalogService().ProviderProducts(cmd.Context(), providerID)
			if err != nil {
				return err
			}
			for _, p := range products {
				fmt.Printf("%s\t%s\n", p.ID, p.Name)
			}
			return nil
		},
	}
	c.Flags().StringVar(&providerID, "provider", "", "provider id (required)")
	_ = c.MarkFlagRequired("provider")
	return c
}
