package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go_5_real_english/internal/config"
	"go_5_real_english/internal/handlers"
	"go_5_real_english/internal/metrics"
	"go_5_real_english/internal/middleware"
	"go_5_real_english/internal/service"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/cors"
)

type appServices struct {
	auth       service.AuthService
	trails     service.StoryTrailService
	audio      service.SegmentAudioService
	completion service.CompletionService
	profile    service.ProfileService
	immersion  service.ImmersionService
}

func newRouter(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics, s appServices, ping func(context.Context) error) http.Handler {
	authHandler := handlers.NewAuthHandler(s.auth)
	trailHandler := handlers.NewStoryTrailHandler(s.trails, s.audio)
	progressHandler := handlers.NewProgressHandler(s.completion)
	profileHandler := handlers.NewProfileHandler(s.profile)
	immersionHandler := handlers.NewImmersionHandler(s.immersion)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))
	r.Use(middleware.MetricsMiddleware(m))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(75 * time.Second))

	authMiddleware := middleware.DevUserContextMiddleware
	if cfg.Auth.Enabled {
		slog.Info("Applying JWT authentication middleware")
		authMiddleware = middleware.JWTAuthMiddleware(cfg)
	} else {
		slog.Warn("Authentication is disabled, X-User-ID header is trusted as is")
	}

	// 生成は高コストなのでユーザー単位で制限する
	nextTrailLimiter := httprate.Limit(
		cfg.RateLimit.NextTrailPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(userOrIPKey),
	)

	r.Route("/api/v1", func(r chi.Router) {
		// --- Public routes ---
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.SignUp)
			r.Post("/signin", authHandler.SignIn)
			r.Post("/google", authHandler.SignInWithGoogle)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/verify-otp", authHandler.VerifyOTP)
			r.Post("/reset-password", authHandler.ResetPassword)
		})

		// --- Protected routes ---
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			r.Get("/auth/me", authHandler.GetMe)

			r.Route("/story-trails", func(r chi.Router) {
				r.With(nextTrailLimiter).Get("/level/{level}/next", trailHandler.GetNextTrail)
				r.Get("/segments/{segment_id}/audio", trailHandler.GetSegmentAudio)
				r.Get("/{trail_id}", trailHandler.GetTrail)
			})

			r.Post("/user-progress/story-trails/{trail_id}/complete", progressHandler.CompleteTrail)

			r.Get("/profile/me", profileHandler.GetProfile)
			r.Patch("/profile/me", profileHandler.UpdateProfile)

			r.Route("/immersion", func(r chi.Router) {
				r.Get("/feed", immersionHandler.GetFeed)
				r.Get("/saved", immersionHandler.GetSaved)
				r.Post("/shorts/{short_id}/watched", immersionHandler.MarkWatched)
				r.Post("/shorts/{short_id}/save", immersionHandler.ToggleSave)
			})
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := ping(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "Health check failed: could not ping DB", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", m.Handler())

	return r
}

func userOrIPKey(r *http.Request) (string, error) {
	if userID, err := middleware.GetUserIDFromContext(r.Context()); err == nil {
		return "user:" + userID.String(), nil
	}
	return httprate.KeyByIP(r)
}
