package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lexigo/lexigo/internal/lookup"
	"github.com/lexigo/lexigo/internal/model"
)

var (
	lookupJSON       bool
	batchConcurrency int
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <word>",
	Short: "Look up a word and translate it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initApp(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		res, err := env.Orch.LookupAndTranslate(cmd.Context(), args[0])
		if err != nil {
			if eris.Is(err, lookup.ErrLookupFailed) {
				return eris.Errorf("no entry found for %q; try another word (e.g. \"hello\", \"make\")", args[0])
			}
			return err
		}

		if lookupJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		printResult(res)
		return nil
	},
}

var lookupBatchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Look up every word in a file (one per line)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initApp(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		words, err := readWordList(args[0])
		if err != nil {
			return err
		}

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(batchConcurrency)

		results := make([]*lookup.Result, len(words))
		for i, w := range words {
			g.Go(func() error {
				res, err := env.Orch.LookupAndTranslate(ctx, w)
				if err != nil {
					zap.L().Warn("batch lookup failed",
						zap.String("word", w),
						zap.Error(err),
					)
					return nil
				}
				results[i] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for _, res := range results {
			if res == nil {
				continue
			}
			printResult(res)
			fmt.Println(strings.Repeat("-", 40))
		}
		return nil
	},
}

func readWordList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "open word list")
	}
	defer func() { _ = f.Close() }()

	var words []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if w := strings.TrimSpace(sc.Text()); w != "" {
			words = append(words, w)
		}
	}
	return words, sc.Err()
}

func printResult(res *lookup.Result) {
	fmt.Printf("%s", res.Lookup.Word)
	if res.Translation != "" && res.Translation != res.Lookup.Word {
		fmt.Printf("  →  %s", res.Translation)
	}
	fmt.Println()

	if len(res.Lookup.PartsOfSpeech) > 0 {
		fmt.Printf("  %s\n", strings.Join(res.Lookup.PartsOfSpeech, ", "))
	}

	for _, a := range model.Accents {
		if p := res.Canonical.Bucket(a); p != nil {
			audio := ""
			if p.AudioURL == "" {
				audio = " (tts)"
			}
			fmt.Printf("  %-10s %s%s\n", a, p.Text, audio)
		}
	}

	for _, d := range res.Lookup.Definitions {
		fmt.Printf("  %d. [%s] %s\n", d.Ordinal+1, d.PartOfSpeech, d.English)
		if d.Ordinal == 0 && res.DefinitionTranslation != "" && res.DefinitionTranslation != d.English {
			fmt.Printf("     = %s\n", res.DefinitionTranslation)
		}
		for _, ex := range d.Examples {
			fmt.Printf("     e.g. %s\n", ex.English)
		}
	}

	if len(res.Lookup.Inflections) > 0 {
		fmt.Println("  forms:")
		for _, f := range res.Lookup.Inflections {
			fmt.Printf("    %s: %s\n", f.FormType, f.Text)
		}
	}
}

func init() {
	lookupCmd.Flags().BoolVar(&lookupJSON, "json", false, "print the raw lookup result as JSON")
	lookupBatchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "max concurrent lookups")
	lookupCmd.AddCommand(lookupBatchCmd)
	rootCmd.AddCommand(lookupCmd)
}
