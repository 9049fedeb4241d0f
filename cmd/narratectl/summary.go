package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	summaryCmd := &cobra.Command{Use: "summary", Short: "Weekly summary operations"}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Check weekly summary eligibility",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(fmt.Sprintf("%s/api/summary/eligibility", apiFlag))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	summaryCmd.AddCommand(checkCmd)

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the weekly summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doPostJSON(fmt.Sprintf("%s/api/summary", apiFlag), nil)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	summaryCmd.AddCommand(generateCmd)

	rootCmd.AddCommand(summaryCmd)
}
