package pronounce

import (
	"bufio"
	"context"
	"os/exec"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/lexigo/lexigo/internal/model"
)

// Accent-to-voice matching tables. Locale prefixes are tried first, then
// voice-name substrings; no match means the platform default voice.
var (
	accentLocales = map[model.Accent]string{
		model.AccentBritish:    "en-gb",
		model.AccentAmerican:   "en-us",
		model.AccentAustralian: "en-au",
	}
	accentNames = map[model.Accent]string{
		model.AccentBritish:    "british",
		model.AccentAmerican:   "american",
		model.AccentAustralian: "australian",
	}
)

// ExecSynthesizer speaks through an espeak-ng compatible binary.
type ExecSynthesizer struct {
	Path string
}

// NewExecSynthesizer creates a synthesizer around the given binary path.
func NewExecSynthesizer(path string) *ExecSynthesizer {
	if path == "" {
		path = "espeak-ng"
	}
	return &ExecSynthesizer{Path: path}
}

// Available reports whether the synthesizer binary is on the PATH.
func (s *ExecSynthesizer) Available() bool {
	_, err := exec.LookPath(s.Path)
	return err == nil
}

// Speak synthesizes text with an accent-appropriate voice when one exists.
func (s *ExecSynthesizer) Speak(ctx context.Context, text string, accent model.Accent) error {
	args := []string{}
	if voice := s.voiceFor(ctx, accent); voice != "" {
		args = append(args, "-v", voice)
	}
	args = append(args, text)

	cmd := exec.CommandContext(ctx, s.Path, args...)
	if err := cmd.Run(); err != nil {
		return eris.Wrapf(err, "pronounce: %s", s.Path)
	}
	return nil
}

// voiceFor lists the installed English voices and picks one matching the
// accent. Listing failures just mean the default voice.
func (s *ExecSynthesizer) voiceFor(ctx context.Context, accent model.Accent) string {
	out, err := exec.CommandContext(ctx, s.Path, "--voices=en").Output()
	if err != nil {
		return ""
	}
	return matchVoice(string(out), accent)
}

// matchVoice scans an espeak-ng voice listing for the accent. Columns:
// Pty Language Age/Gender VoiceName File Other. Locale-tag prefix match
// wins over a voice-name substring match.
func matchVoice(listing string, accent model.Accent) string {
	locale := accentLocales[accent]
	name := accentNames[accent]

	var nameMatch string
	sc := bufio.NewScanner(strings.NewReader(listing))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 {
			continue
		}
		lang, voice := strings.ToLower(fields[1]), fields[3]
		if strings.HasPrefix(lang, locale) {
			return voice
		}
		if nameMatch == "" && strings.Contains(strings.ToLower(voice), name) {
			nameMatch = voice
		}
	}
	return nameMatch
}
