package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/lexigo/lexigo/internal/model"
	"github.com/lexigo/lexigo/internal/pronounce"
)

var speakAccent string

var speakCmd = &cobra.Command{
	Use:   "speak <word>",
	Short: "Play a word's pronunciation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initApp(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		accent, err := parseAccent(speakAccent)
		if err != nil {
			return err
		}

		res, err := env.Orch.LookupAndTranslate(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		err = env.Player.Play(cmd.Context(), res.Canonical, accent, res.Lookup.Word)
		if eris.Is(err, pronounce.ErrSpeechUnsupported) {
			return eris.New("no audio available and speech synthesis is not installed")
		}
		return err
	},
}

func parseAccent(s string) (model.Accent, error) {
	switch s {
	case "uk", "british":
		return model.AccentBritish, nil
	case "us", "american":
		return model.AccentAmerican, nil
	case "au", "australian":
		return model.AccentAustralian, nil
	}
	return "", eris.Errorf("unknown accent %q (use uk, us or au)", s)
}

func init() {
	speakCmd.Flags().StringVar(&speakAccent, "accent", "uk", "accent to play: uk, us or au")
	rootCmd.AddCommand(speakCmd)
}
