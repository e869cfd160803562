package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/founderhub/founderhub/internal/ai"
	"github.com/founderhub/founderhub/internal/ai/gemini"
	"github.com/founderhub/founderhub/internal/blobstore"
	"github.com/founderhub/founderhub/internal/directory"
	"github.com/founderhub/founderhub/internal/logger"
	"github.com/founderhub/founderhub/internal/recommend"
	"github.com/founderhub/founderhub/internal/secrets"
	"github.com/founderhub/founderhub/internal/server"
	"github.com/founderhub/founderhub/internal/store"
)

const (
	defaultHost        = "127.0.0.1"
	defaultPort        = 8080
	defaultSQLitePath  = "founderhub.db"
	defaultBleveIndex  = "founderhub.bleve"
	geminiAPIKeyEnvVar = "GEMINI_API_KEY"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the founderhub HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting founderhub", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	st, err := newStore(ctx, config)
	if err != nil {
		logger.Fatal("opening the founder store", zap.Error(err))
	}
	defer st.Close()

	total, err := st.Count(ctx)
	if err != nil {
		logger.Fatal("counting founders", zap.Error(err))
	}
	logger.Info("founder store ready", zap.Int64("founders", total))

	dir, err := newDirectory(ctx, config, st, logger)
	if err != nil {
		logger.Fatal("opening the founder directory index", zap.Error(err))
	}
	defer dir.Close()

	assistant, err := newAssistant(ctx, config, logger)
	if err != nil {
		logger.Fatal(
			"building the AI assistant",
			zap.Error(err),
			zap.String("hint", "set ai.gemini.api-key-file or the GEMINI_API_KEY_FILE environment variable"),
		)
	}

	blobs, err := newBlobStore(ctx, config)
	if err != nil {
		logger.Fatal("building the blob store", zap.Error(err))
	}
	if blobs == nil {
		logger.Info("blob storage is not configured; image uploads are disabled")
	}

	host, port := defaultHost, defaultPort
	if config.Server != nil {
		if config.Server.Host != "" {
			host = config.Server.Host
		}
		if config.Server.Port != 0 {
			port = config.Server.Port
		}
	}

	srv := server.New(st, assistant, dir, blobs, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(host, port)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown failed", zap.Error(err))
		}
	}
}

func newStore(ctx context.Context, config *Config) (store.Store, error) {
	driver := store.DriverSQLite
	if config.Database != nil && config.Database.Driver != "" {
		driver = strings.ToLower(strings.TrimSpace(config.Database.Driver))
	}

	switch driver {
	case store.DriverSQLite:
		path := defaultSQLitePath
		if config.Database != nil && config.Database.Path != "" {
			path = config.Database.Path
		}
		return store.NewSQLite(path)

	case store.DriverPostgres:
		if config.Database == nil {
			return nil, errors.New("database configuration is required for the postgres driver")
		}
		url, err := secrets.Load(secrets.Source{
			Name:  "database url",
			Value: config.Database.URL,
			File:  config.Database.URLFile,
			Env:   "DATABASE_URL",
		})
		if err != nil {
			return nil, err
		}
		return store.NewPostgres(ctx, url)

	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// newDirectory opens the bleve index and seeds it from the store so search
// reflects profiles created before this process started.
func newDirectory(ctx context.Context, config *Config, st store.FounderStore, logger *zap.Logger) (*directory.Index, error) {
	path := defaultBleveIndex
	if config.Directory != nil && config.Directory.IndexPath != "" {
		path = config.Directory.IndexPath
	}

	dir, err := directory.New(path)
	if err != nil {
		return nil, err
	}

	all, err := st.List(ctx)
	if err != nil {
		dir.Close()
		return nil, fmt.Errorf("listing founders for indexing: %w", err)
	}

	for _, f := range all.Items {
		if err := dir.Add(f); err != nil {
			logger.Warn("indexing founder failed", zap.String("founder_id", f.ID), zap.Error(err))
		}
	}

	logger.Info("founder directory ready", zap.Int("indexed", all.Len()))
	return dir, nil
}

func newAssistant(ctx context.Context, config *Config, log *zap.Logger) (ai.Assistant, error) {
	if config.AI == nil || config.AI.Gemini == nil {
		return nil, errors.New("ai.gemini configuration is required")
	}

	provider := strings.TrimSpace(strings.ToLower(config.AI.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", config.AI.Provider)
	}

	keyFile := config.AI.Gemini.APIKeyFile
	if keyFile == "" {
		keyFile = viper.GetString("gemini-api-key-file")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: keyFile,
		Env:  geminiAPIKeyEnvVar,
	})
	if err != nil {
		return nil, err
	}

	aiLogger := logger.WithCommonFields(log, "gemini", config.AI.Gemini.Model)

	generator, err := gemini.NewGenerator(ctx, apiKey, config.AI.Gemini.Model, config.AI.Gemini.MaxRetries, aiLogger)
	if err != nil {
		return nil, err
	}

	engine := newEngine(config, log)

	return gemini.NewGateway(generator, engine, aiLogger, config.AI.Gemini.MaxLogLength), nil
}

func newEngine(config *Config, log *zap.Logger) *recommend.Engine {
	radius := float64(0)
	maxRecommended := 0
	if config.Recommend != nil {
		radius = config.Recommend.NearbyRadiusKm
		maxRecommended = config.Recommend.MaxRecommended
	}
	return recommend.NewEngine(radius, maxRecommended, log)
}

func newBlobStore(ctx context.Context, config *Config) (*blobstore.Store, error) {
	if config.Blob == nil || config.Blob.Bucket == "" {
		return nil, nil
	}

	accessKey, err := secrets.Load(secrets.Source{
		Name: "blob access key",
		File: config.Blob.AccessKeyFile,
		Env:  "BLOB_ACCESS_KEY",
	})
	if err != nil {
		return nil, err
	}

	secretKey, err := secrets.Load(secrets.Source{
		Name: "blob secret key",
		File: config.Blob.SecretKeyFile,
		Env:  "BLOB_SECRET_KEY",
	})
	if err != nil {
		return nil, err
	}

	return blobstore.New(ctx, blobstore.Config{
		AccountID:     config.Blob.AccountID,
		Endpoint:      config.Blob.Endpoint,
		AccessKey:     accessKey,
		SecretKey:     secretKey,
		Bucket:        config.Blob.Bucket,
		PublicBaseURL: config.Blob.PublicBaseURL,
	})
}
