package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gmpack/aiou/pkg/format"
)

var formatMaxScore int

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "String formatting helpers",
}

var formatTitleCmd = &cobra.Command{
	Use:   "title [text]",
	Short: "Shorten a title to fit a list item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		max := formatMaxScore
		if max <= 0 {
			max = format.DefaultMaxScore
		}
		fmt.Println(format.ListItemTitle(args[0], max))
		return nil
	},
}

var formatTIDCmd = &cobra.Command{
	Use:   "tid [title-id]",
	Short: "Print a title ID in canonical form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseTitleID(args[0])
		if err != nil {
			return err
		}
		fmt.Println(format.ApplicationID(id))
		return nil
	},
}
