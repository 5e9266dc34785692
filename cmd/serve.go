package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lexigo/lexigo/internal/lookup"
	"github.com/lexigo/lexigo/internal/model"
	"github.com/lexigo/lexigo/internal/store"
)

// lookupService is the orchestrator surface the HTTP API needs.
type lookupService interface {
	LookupAndTranslate(ctx context.Context, word string) (*lookup.Result, error)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the lookup and word-store HTTP API",
	Long:  "Exposes lookups and the personal word store over HTTP with permissive CORS, so a browser front end (or another lexigo instance using this as its fallback API) can consume it.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initApp(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           newRouter(env.Orch, env.Store, env.UserID),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutCtx)
		}()

		zap.L().Info("serving", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

// newRouter builds the API routes. The word-store routes operate in the
// configured user's namespace; authentication is the deployment's concern
// (reverse proxy or the hosted auth provider), not this process's.
func newRouter(orch lookupService, st store.Store, userID string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/lookup/{word}", func(w http.ResponseWriter, req *http.Request) {
		word := chi.URLParam(req, "word")
		res, err := orch.LookupAndTranslate(req.Context(), word)
		if err != nil {
			if errors.Is(err, lookup.ErrLookupFailed) {
				writeError(w, http.StatusNotFound, fmt.Sprintf("no entry found for %q; try another word", word))
				return
			}
			zap.L().Error("lookup failed", zap.String("word", word), zap.Error(err))
			writeError(w, http.StatusBadGateway, "dictionary sources unavailable")
			return
		}
		writeJSON(w, http.StatusOK, res)
	})

	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			cats, err := st.ListCategories(req.Context(), userID)
			if err != nil {
				writeStoreError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, cats)
		})
		r.Post("/", func(w http.ResponseWriter, req *http.Request) {
			var c model.Category
			if err := json.NewDecoder(req.Body).Decode(&c); err != nil || c.Slug == "" {
				writeError(w, http.StatusBadRequest, "slug is required")
				return
			}
			if c.Name == "" {
				c.Name = c.Slug
			}
			if err := st.CreateCategory(req.Context(), userID, c); err != nil {
				writeStoreError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, c)
		})
		r.Delete("/{slug}", func(w http.ResponseWriter, req *http.Request) {
			if err := st.DeleteCategory(req.Context(), userID, chi.URLParam(req, "slug")); err != nil {
				writeStoreError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})

		r.Get("/{slug}/words", func(w http.ResponseWriter, req *http.Request) {
			words, err := st.ListWords(req.Context(), userID, chi.URLParam(req, "slug"))
			if err != nil {
				writeStoreError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, words)
		})
		r.Post("/{slug}/words", func(w http.ResponseWriter, req *http.Request) {
			var word model.SavedWord
			if err := json.NewDecoder(req.Body).Decode(&word); err != nil || word.Word == "" {
				writeError(w, http.StatusBadRequest, "word is required")
				return
			}
			word.Category = chi.URLParam(req, "slug")
			id, err := st.SaveWord(req.Context(), userID, word)
			if err != nil {
				writeStoreError(w, err)
				return
			}
			word.ID = id
			writeJSON(w, http.StatusCreated, word)
		})
		r.Get("/{slug}/words/{id}", func(w http.ResponseWriter, req *http.Request) {
			word, err := st.GetWord(req.Context(), userID, chi.URLParam(req, "slug"), chi.URLParam(req, "id"))
			if err != nil {
				writeStoreError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, word)
		})
		r.Delete("/{slug}/words/{id}", func(w http.ResponseWriter, req *http.Request) {
			err := st.DeleteWord(req.Context(), userID, chi.URLParam(req, "slug"), chi.URLParam(req, "id"))
			if err != nil {
				writeStoreError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
		r.Delete("/{slug}/words", func(w http.ResponseWriter, req *http.Request) {
			n, err := st.ClearCategory(req.Context(), userID, chi.URLParam(req, "slug"))
			if err != nil {
				writeStoreError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	zap.L().Error("store operation failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "store unavailable")
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
