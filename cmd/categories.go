package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexigo/lexigo/internal/model"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Manage word categories",
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories with word counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initApp(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		cats, err := env.Store.ListCategories(cmd.Context(), env.UserID)
		if err != nil {
			return err
		}
		for _, c := range cats {
			fmt.Printf("%-20s %4d words\n", c.Name, c.WordCount)
		}
		return nil
	},
}

var categoriesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initApp(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		return env.Store.CreateCategory(cmd.Context(), env.UserID, model.Category{
			Slug: args[0],
			Name: args[0],
		})
	},
}

var categoriesRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Delete a category and its words",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initApp(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		return env.Store.DeleteCategory(cmd.Context(), env.UserID, args[0])
	},
}

func init() {
	categoriesCmd.AddCommand(categoriesListCmd, categoriesAddCmd, categoriesRemoveCmd)
	rootCmd.AddCommand(categoriesCmd)
}
