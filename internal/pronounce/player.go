package pronounce

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/lexigo/lexigo/internal/model"
)

// ErrSpeechUnsupported is returned when neither an audio asset nor a
// speech synthesizer is available for the requested accent.
var ErrSpeechUnsupported = eris.New("pronounce: speech synthesis unavailable")

// Downloader fetches a remote audio asset.
type Downloader interface {
	FetchBytes(ctx context.Context, url string, headers map[string]string) ([]byte, error)
}

// Synthesizer speaks text aloud with an accent-appropriate voice.
type Synthesizer interface {
	Speak(ctx context.Context, text string, accent model.Accent) error
	Available() bool
}

// Player plays a canonical pronunciation bucket: remote audio asset first,
// speech synthesis of the headword as the fallback. Playback failures are
// recoverable, never fatal to the caller beyond the returned error.
type Player struct {
	download   Downloader
	synth      Synthesizer
	playerPath string

	// runPlayer is swappable for tests.
	runPlayer func(ctx context.Context, path string) error

	mu      sync.Mutex
	lastURL map[model.Accent]string
}

// NewPlayer creates a Player. playerPath names the external audio player
// binary (ffplay-compatible flags). synth may be nil when no synthesizer
// is installed.
func NewPlayer(download Downloader, synth Synthesizer, playerPath string) *Player {
	p := &Player{
		download:   download,
		synth:      synth,
		playerPath: playerPath,
		lastURL:    make(map[model.Accent]string),
	}
	p.runPlayer = p.execPlayer
	return p
}

// Play plays the pronunciation for the given accent. When the bucket has
// an audio URL the asset is downloaded and played; on any asset failure,
// or when the bucket has no audio (or is absent entirely), the headword is
// synthesized instead. Returns ErrSpeechUnsupported only when the
// synthesis fallback itself is unavailable.
func (p *Player) Play(ctx context.Context, canonical model.CanonicalPronunciation, accent model.Accent, word string) error {
	bucket := canonical.Bucket(accent)
	if bucket != nil && bucket.AudioURL != "" {
		p.remember(accent, bucket.AudioURL)
		if err := p.playAsset(ctx, bucket.AudioURL); err == nil {
			return nil
		} else {
			zap.L().Warn("pronounce: audio playback failed, falling back to synthesis",
				zap.String("url", bucket.AudioURL),
				zap.Error(err),
			)
		}
	}
	return p.speak(ctx, word, accent)
}

// LastAudioURL returns the most recently played audio URL for the accent.
// Last write wins; each new lookup simply overwrites the previous value.
func (p *Player) LastAudioURL(accent model.Accent) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastURL[accent]
}

func (p *Player) remember(accent model.Accent, url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastURL[accent] = url
}

func (p *Player) playAsset(ctx context.Context, url string) error {
	data, err := p.download.FetchBytes(ctx, url, nil)
	if err != nil {
		return eris.Wrap(err, "pronounce: download audio")
	}

	tmp, err := os.CreateTemp("", "lexigo-audio-*"+filepath.Ext(url))
	if err != nil {
		return eris.Wrap(err, "pronounce: temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return eris.Wrap(err, "pronounce: write audio")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "pronounce: close audio file")
	}

	return p.runPlayer(ctx, tmp.Name())
}

func (p *Player) execPlayer(ctx context.Context, path string) error {
	if _, err := exec.LookPath(p.playerPath); err != nil {
		return eris.Wrapf(err, "pronounce: player %q not found", p.playerPath)
	}
	cmd := exec.CommandContext(ctx, p.playerPath, "-nodisp", "-autoexit", "-loglevel", "quiet", path)
	if err := cmd.Run(); err != nil {
		return eris.Wrap(err, "pronounce: play audio")
	}
	return nil
}

func (p *Player) speak(ctx context.Context, word string, accent model.Accent) error {
	if p.synth == nil || !p.synth.Available() {
		return ErrSpeechUnsupported
	}
	if err := p.synth.Speak(ctx, word, accent); err != nil {
		return eris.Wrap(err, "pronounce: synthesize")
	}
	return nil
}
