package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/config"
	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/handler"
	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/repository"
	"github.com/vasapolrittideah/strive-blog/services/blog-service/internal/usecase"
	"github.com/vasapolrittideah/strive-blog/shared/auth"
	"github.com/vasapolrittideah/strive-blog/shared/logger"
	"github.com/vasapolrittideah/strive-blog/shared/mailer"
	"github.com/vasapolrittideah/strive-blog/shared/media"
	"github.com/vasapolrittideah/strive-blog/shared/provider"
	"github.com/vasapolrittideah/strive-blog/shared/registry"
	"github.com/vasapolrittideah/strive-blog/shared/utilities"
	"github.com/vasapolrittideah/strive-blog/shared/validator"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env, cfg.ServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := mongoClient.Ping(pingCtx, readpref.Primary()); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("failed to ping MongoDB")
	}
	cancel()

	db := mongoClient.Database(cfg.MongoDB.Database)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	mail, err := mailer.NewMailer(cfg.SMTP, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create mailer")
	}

	storage, err := media.NewMinIOStorage(ctx, cfg.MinIO)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize media storage")
	}

	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.Secret, cfg.Token.Audience, cfg.Token.Issuer, cfg.Token.ExpiresIn)

	var providers []provider.Provider
	if cfg.Google.Enabled() {
		providers = append(providers, provider.NewGoogleOAuthProvider(cfg.Google))
	}
	if cfg.GitHub.Enabled() {
		providers = append(providers, provider.NewGitHubOAuthProvider(cfg.GitHub))
	}

	authorRepo := repository.NewAuthorMongoRepository(ctx, log, db)
	identityRepo := repository.NewIdentityMongoRepository(ctx, log, db)
	blogPostRepo := repository.NewBlogPostMongoRepository(ctx, log, db)
	stateRepo := repository.NewOAuthStateRedisRepository(redisClient)
	resetTokenRepo := repository.NewPasswordResetTokenMongoRepository(ctx, log, db)

	router := handler.NewRouter(handler.RouterConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AdminEmails:    cfg.AuthorAdminEmails,
		FrontendURL:    cfg.FrontendURL,
	}, handler.Dependencies{
		AuthorUsecase:   usecase.NewAuthorUsecase(authorRepo, identityRepo, blogPostRepo, storage, log),
		BlogPostUsecase: usecase.NewBlogPostUsecase(blogPostRepo, storage, mail, log),
		CommentUsecase:  usecase.NewCommentUsecase(blogPostRepo),
		AuthUsecase:     usecase.NewAuthUsecase(authorRepo, identityRepo, stateRepo, providers, jwtAuth, log),
		PasswordResetUsecase: usecase.NewPasswordResetUsecase(
			authorRepo,
			identityRepo,
			resetTokenRepo,
			mail,
			usecase.PasswordResetConfig{ResetURL: cfg.PasswordResetURL, ExpiresIn: cfg.PasswordResetExpiresIn},
			log,
		),
		TokenValidator: jwtAuth,
		Validator:      validator.New(),
		Logger:         log,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if cfg.GRPCHealthAddr != "" {
		grpcServer, healthServer, err := utilities.ServeHealth(cfg.GRPCHealthAddr, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to start gRPC health server")
		}
		defer func() {
			healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
			grpcServer.GracefulStop()
		}()
	}

	if cfg.ConsulAddr != "" {
		reg, err := registry.NewConsulRegistry(cfg.ConsulAddr, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create service registry")
		}

		serviceID := cfg.ServiceName + "-" + uuid.NewString()
		if err := reg.Register(registry.Service{
			ID:             serviceID,
			Name:           cfg.ServiceName,
			Address:        cfg.Host,
			Port:           cfg.Port,
			Tags:           []string{"http", "api"},
			HealthURL:      fmt.Sprintf("http://%s:%d/health", cfg.Host, cfg.Port),
			GRPCHealthAddr: cfg.GRPCHealthAddr,
		}); err != nil {
			log.Fatal().Err(err).Msg("failed to register service")
		}
		defer func() {
			if err := reg.Deregister(serviceID); err != nil {
				log.Error().Err(err).Msg("failed to deregister service")
			}
		}()
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Int("providers", len(providers)).Msg("blog service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("blog service stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down blog service")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shut down blog service gracefully")
	}
}
