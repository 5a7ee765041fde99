package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Qovery/sweeper/pkg"
)

var listCmd = &cobra.Command{
	Use:       "list [buckets|stacks]",
	Short:     "Print S3 bucket or CloudFormation stack names without prompting",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{pkg.KindBuckets, pkg.KindStacks},
	RunE: func(cmd *cobra.Command, args []string) error {
		options, err := loadOptions()
		if err != nil {
			return err
		}

		filter, err := cmd.Flags().GetString("filter")
		if err != nil {
			return err
		}

		return pkg.StartList(cmd.Context(), options, args[0], filter, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("filter", "f", "", "Only print names matching this wildcard")
}
