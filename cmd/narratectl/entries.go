package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	entriesCmd := &cobra.Command{Use: "entries", Short: "Journal entry operations"}

	// add
	var content string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Write a journal entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if content == "" {
				return fmt.Errorf("--content required")
			}
			data, err := doPostJSON(fmt.Sprintf("%s/api/entries", apiFlag),
				map[string]interface{}{"content": content})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	addCmd.Flags().StringVarP(&content, "content", "c", "", "Entry text (required)")
	_ = addCmd.MarkFlagRequired("content")
	entriesCmd.AddCommand(addCmd)

	// list
	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(fmt.Sprintf("%s/api/entries?limit=%d", apiFlag, limit))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	listCmd.Flags().IntVarP(&limit, "limit", "l", 50, "Maximum entries to return")
	entriesCmd.AddCommand(listCmd)

	// delete
	deleteCmd := &cobra.Command{
		Use:   "delete ENTRY_ID",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := doDelete(fmt.Sprintf("%s/api/entries/%s", apiFlag, args[0])); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, "deleted")
			return nil
		},
	}
	entriesCmd.AddCommand(deleteCmd)

	rootCmd.AddCommand(entriesCmd)
}
