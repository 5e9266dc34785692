package main

import (
	"context"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/lexigo/lexigo/internal/config"
	"github.com/lexigo/lexigo/internal/dict"
	"github.com/lexigo/lexigo/internal/fetch"
	"github.com/lexigo/lexigo/internal/lookup"
	"github.com/lexigo/lexigo/internal/pronounce"
	"github.com/lexigo/lexigo/internal/store"
	"github.com/lexigo/lexigo/internal/translate"
	"github.com/lexigo/lexigo/pkg/dictapi"
	"github.com/lexigo/lexigo/pkg/mymemory"
)

// appEnv holds the initialized clients and services shared by the
// commands.
type appEnv struct {
	Fetch  *fetch.Chain
	Orch   *lookup.Orchestrator
	Player *pronounce.Player
	Store  store.Store
	UserID string

	closeFns []func()
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	for _, fn := range e.closeFns {
		fn()
	}
}

// initApp wires the fetcher, orchestrator, player and store from config.
// Callers should defer env.Close().
func initApp(ctx context.Context) (*appEnv, error) {
	client := fetch.NewClient(fetch.Options{
		UserAgent:    cfg.Fetch.UserAgent,
		Timeout:      time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
		RateLimiters: rateLimiters(),
	})
	chain := fetch.NewChain(client, relays()...)

	parser := dict.NewParser(cfg.Dictionary.BaseURL)
	inflect := dict.NewInflectionScraper(chain, cfg.Inflect.BaseURL)
	translator := translate.New(
		mymemory.NewClient(mymemory.WithBaseURL(cfg.Translate.BaseURL)),
		cfg.Translate.Source,
		cfg.Translate.Target,
	)

	var fallback lookup.FallbackAPI
	if cfg.Dictionary.FallbackAPIBase != "" {
		fallback = dict.NewAPIFallback(dictapi.NewClient(dictapi.WithBaseURL(cfg.Dictionary.FallbackAPIBase)))
	}

	orch := lookup.New(chain, parser, inflect, translator, fallback, lookup.Options{
		BaseURL:      cfg.Dictionary.BaseURL,
		Locale:       cfg.Dictionary.Locale,
		LanguagePath: cfg.Dictionary.LanguagePath,
	})

	player := pronounce.NewPlayer(client, pronounce.NewExecSynthesizer(cfg.Audio.EspeakPath), cfg.Audio.PlayerPath)

	st, err := initStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	env := &appEnv{
		Fetch:  chain,
		Orch:   orch,
		Player: player,
		Store:  st,
		UserID: cfg.Store.UserID,
	}
	env.closeFns = append(env.closeFns, func() { _ = st.Close() })
	return env, nil
}

// relays converts the configured relay list, defaulting to the built-in
// chain when none is configured.
func relays() []fetch.Relay {
	if len(cfg.Fetch.Relays) == 0 {
		return fetch.DefaultRelays()
	}
	out := make([]fetch.Relay, 0, len(cfg.Fetch.Relays))
	for _, r := range cfg.Fetch.Relays {
		out = append(out, fetch.Relay{Name: r.Name, Endpoint: r.Endpoint, Envelope: r.Envelope})
	}
	return out
}

// rateLimiters builds one limiter per upstream host so batch lookups do
// not hammer the dictionary, the translation service or the relays.
func rateLimiters() map[string]*rate.Limiter {
	if cfg.Fetch.RatePerHost <= 0 {
		return nil
	}

	bases := []string{
		cfg.Dictionary.BaseURL,
		cfg.Dictionary.FallbackAPIBase,
		cfg.Translate.BaseURL,
		cfg.Inflect.BaseURL,
	}
	for _, r := range relays() {
		bases = append(bases, r.Endpoint)
	}

	out := make(map[string]*rate.Limiter)
	for _, base := range bases {
		u, err := url.Parse(base)
		if err != nil || u.Host == "" {
			continue
		}
		if _, ok := out[u.Host]; ok {
			continue
		}
		out[u.Host] = rate.NewLimiter(rate.Limit(cfg.Fetch.RatePerHost), 1)
	}
	return out
}

// initStore builds the store for the configured driver. The firestore
// driver is mirrored onto a local sqlite fallback so saves survive a lost
// connection.
func initStore(ctx context.Context, sc config.StoreConfig) (store.Store, error) {
	switch sc.Driver {
	case "sqlite":
		return store.NewSQLite(sc.DatabaseURL)
	case "postgres":
		return store.NewPostgres(ctx, sc.DatabaseURL)
	case "firestore":
		remote, err := store.NewFirestore(ctx, sc.FirestoreProject, sc.CredentialsFile)
		if err != nil {
			return nil, err
		}
		offline, err := store.NewSQLite(sc.OfflinePath)
		if err != nil {
			_ = remote.Close()
			return nil, err
		}
		return store.NewMirrored(remote, offline), nil
	default:
		return nil, eris.Errorf("unknown store driver %q", sc.Driver)
	}
}
