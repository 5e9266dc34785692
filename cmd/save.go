package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexigo/lexigo/internal/lookup"
	"github.com/lexigo/lexigo/internal/model"
)

var saveCategory string

var saveCmd = &cobra.Command{
	Use:   "save <word>",
	Short: "Look up a word and save it into a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initApp(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cmd.Context()
		res, err := env.Orch.LookupAndTranslate(ctx, args[0])
		if err != nil {
			return err
		}

		if err := env.Store.CreateCategory(ctx, env.UserID, model.Category{
			Slug: saveCategory,
			Name: saveCategory,
		}); err != nil {
			return err
		}

		id, err := env.Store.SaveWord(ctx, env.UserID, savedWordFrom(res, saveCategory))
		if err != nil {
			return err
		}
		fmt.Printf("saved %q to %s (%s)\n", res.Lookup.Word, saveCategory, id)
		return nil
	},
}

// savedWordFrom builds the persisted shape from a lookup result, keeping
// the primary definition and its first example.
func savedWordFrom(res *lookup.Result, category string) model.SavedWord {
	w := model.SavedWord{
		Word:          res.Lookup.Word,
		Translation:   res.Translation,
		Pronunciation: res.Canonical,
		Category:      category,
	}
	if len(res.Lookup.PartsOfSpeech) > 0 {
		w.PartOfSpeech = res.Lookup.PartsOfSpeech[0]
	}
	if primary := res.Lookup.PrimaryDefinition(); primary != nil {
		w.Definition = primary.English
		w.DefinitionTranslation = res.DefinitionTranslation
		if len(primary.Examples) > 0 {
			w.Example = primary.Examples[0].English
		}
	}
	return w
}

func init() {
	saveCmd.Flags().StringVar(&saveCategory, "category", "default", "category to save into")
	rootCmd.AddCommand(saveCmd)
}
