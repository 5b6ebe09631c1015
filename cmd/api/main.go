package main

import (
	"log"
	"net/http"

	_ "nodosml-tf/docs" // swagger docs

	"nodosml-tf/internal/artifacts"
	"nodosml-tf/internal/cache"
	"nodosml-tf/internal/config"
	"nodosml-tf/internal/dataset"
	"nodosml-tf/internal/db"
	"nodosml-tf/internal/handler"
	"nodosml-tf/internal/profile"
	"nodosml-tf/internal/recommend"
	"nodosml-tf/internal/repository"
	"nodosml-tf/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title NodosML Movie Recommender API
// @version 2.0
// @description API del recomendador (user-knn + popularidad, Mongo, Redis)
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	// Mongo y Redis
	db.InitMongo(cfg)
	cache.InitRedis(cfg)

	// catálogo MovieLens en memoria (movies.csv + ratings.csv)
	ds, err := dataset.Load(cfg.DataDir)
	if err != nil {
		log.Fatalf("[dataset] no se pudo cargar el dataset desde %s: %v", cfg.DataDir, err)
	}
	log.Printf("[dataset] %d películas, %d ratings, %d géneros", len(ds.Movies), len(ds.Ratings), len(ds.Genres))

	// artefactos del modelo (generados por cmd/trainer). Ausentes no es
	// fatal: el servicio arranca en modo popularidad.
	bundle, err := artifacts.LoadBundle(cfg.ModelsDir)
	if err != nil {
		log.Fatalf("[artifacts] artefactos corruptos en %s: %v", cfg.ModelsDir, err)
	}
	store := artifacts.NewStore(bundle)

	builder := profile.NewBuilder(ds)
	agg := recommend.NewAggregator(ds, builder, cfg.PopularMinRatings, cfg.KNNNeighbors)

	// repos
	userRepo := repository.NewUserRepository()
	ratingRepo := repository.NewRatingRepository()
	recRepo := repository.NewRecommendationRepository()

	// services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	movieSvc := service.NewMovieService(ds, agg)
	ratingSvc := service.NewRatingService(ratingRepo, ds)
	recSvc := service.NewRecommendService(ratingRepo, recRepo, agg, store)
	modelAdminSvc := service.NewModelAdminService(cfg, store)

	// handlers
	authH := handler.NewAuthHandler(authSvc)
	movieH := handler.NewMovieHandler(movieSvc)
	ratingH := handler.NewRatingHandler(ratingSvc)
	recH := handler.NewRecommendHandler(recSvc)
	modelAdminH := handler.NewModelAdminHandler(modelAdminSvc)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// =============
	// Rutas públicas
	// =============
	r.Get("/health", handler.Health)

	r.Post("/auth/register", authH.Register)
	r.Post("/auth/login", authH.Login)

	// Catálogo (público, solo lectura)
	r.Get("/movies/search", movieH.Search)
	r.Get("/movies/genres", movieH.Genres)
	r.Get("/movies/top", movieH.Top)
	r.Get("/movies/{id}", movieH.GetMovie)

	// Recomendaciones sin sesión
	r.Post("/recommendations", recH.PostAnonymous)
	r.Get("/recommendations/popular", recH.GetPopular)

	// ===========================
	// Rutas protegidas con JWT
	// ===========================
	authMw := handler.JWTAuth(cfg.JWTSecret)

	r.Group(func(r chi.Router) {
		r.Use(authMw)

		// ---- Endpoints /me (USER normal) ----
		r.Route("/me", func(r chi.Router) {
			r.Get("/ratings", ratingH.GetMyRatings)
			r.Post("/ratings", ratingH.PostMyRating)
			r.Delete("/ratings/{movieId}", ratingH.DeleteMyRating)

			r.Get("/recommendations", recH.GetMyRecommendations)
			r.Get("/recommendations/history", recH.GetMyHistory)
		})

		// ---- Endpoints solo ADMIN ----
		r.Group(func(r chi.Router) {
			r.Use(handler.AdminOnly())

			// edición de usuario
			r.Put("/users/{id}/update", authH.UpdateUser)
			r.Get("/users", authH.ListUsers)

			// ratings y recomendaciones de cualquier usuario
			r.Route("/users/{id}", func(r chi.Router) {
				// obtener info del usuario por id
				r.Get("/", authH.GetUserByID)

				r.Get("/ratings", ratingH.GetRatings)
				r.Post("/ratings", ratingH.PostRating)

				// HTTP normal
				r.Get("/recommendations", recH.GetRecommendations)

				// WebSocket
				r.Get("/ws/recommendations", recH.GetRecommendationsWS)
			})

			// --- mantenimiento del modelo (reload post-entrenamiento) ---
			handler.MountModelAdminRoutes(r, modelAdminH)
		})
	})

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	log.Printf("HTTP escuchando en :%s", cfg.HTTPPort)
	log.Fatal(http.ListenAndServe(":"+cfg.HTTPPort, r))
}
