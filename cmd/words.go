package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexigo/lexigo/internal/model"
)

var wordsCategory string

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Manage saved words",
}

var wordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the words of a category",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initApp(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		words, err := env.Store.ListWords(cmd.Context(), env.UserID, wordsCategory)
		if err != nil {
			return err
		}
		if len(words) == 0 {
			fmt.Printf("no words in %s\n", wordsCategory)
			return nil
		}
		for _, w := range words {
			fmt.Printf("%-12s  %-20s %s", w.ID[:minInt(8, len(w.ID))], w.Word, w.Translation)
			if p := w.Pronunciation.Bucket(model.AccentBritish); p != nil {
				fmt.Printf("  %s", p.Text)
			}
			fmt.Println()
		}
		return nil
	},
}

var wordsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved word",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initApp(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		return env.Store.DeleteWord(cmd.Context(), env.UserID, wordsCategory, args[0])
	},
}

var wordsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every word of a category",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initApp(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		n, err := env.Store.ClearCategory(cmd.Context(), env.UserID, wordsCategory)
		if err != nil {
			return err
		}
		fmt.Printf("deleted %d words from %s\n", n, wordsCategory)
		return nil
	},
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func init() {
	wordsCmd.PersistentFlags().StringVar(&wordsCategory, "category", "default", "category to operate on")
	wordsCmd.AddCommand(wordsListCmd, wordsDeleteCmd, wordsClearCmd)
	rootCmd.AddCommand(wordsCmd)
}
