package main

import (
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:     "raivaus",
	Short:   "Raivaus - cloud resource clearing",
	Version: version,
	Long: `Raivaus sweeps an account clean of the resources that outlive their
environments: clusters, databases, queues, buckets, orphaned snapshots.

Every run previews by default. Nothing is deleted until you pass --execute.

Examples:
  raivaus sweep                                  # preview everything, all regions
  raivaus sweep --regions eu-north-1             # preview one region
  raivaus sweep --protect keep=true --execute    # delete, sparing tagged resources
  raivaus regions                                # show the scopes a sweep would cover`,
}

func init() {
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(regionsCmd)
}
