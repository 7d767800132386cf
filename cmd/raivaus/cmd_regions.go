package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yairfalse/raivaus/adapters"
)

var regionsFlags struct {
	configPath string
	regions    []string
}

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List the scopes a sweep would cover",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadRunConfig(regionsFlags.configPath, flagOverrides{
			regions: regionsFlags.regions,
		})
		if err != nil {
			return err
		}

		provider, err := adapters.GetProvider(ctx, cfg.Provider, adapters.ProviderConfig{
			Regions: cfg.Regions,
		})
		if err != nil {
			return fmt.Errorf("provider setup failed: %w", err)
		}

		scopes, err := provider.ListScopes(ctx)
		if err != nil {
			return fmt.Errorf("failed to list scopes: %w", err)
		}

		for _, scope := range scopes {
			fmt.Println(scope.String())
		}
		fmt.Printf("\n%d scopes\n", len(scopes))
		return nil
	},
}

func init() {
	regionsCmd.Flags().StringVar(&regionsFlags.configPath, "config", "", "path to a sweep config file")
	regionsCmd.Flags().StringSliceVar(&regionsFlags.regions, "regions", nil, "restrict to these regions")
}
