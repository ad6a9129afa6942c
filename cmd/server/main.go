package main

import (
	"fmt"
	"net/http"
	"os"

	"expdata/internal/analysis"
	"expdata/internal/api"
	"expdata/internal/config"
	"expdata/internal/logging"
	"expdata/internal/service"
	"expdata/internal/state"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cfg = config.Load()

var rootCmd = &cobra.Command{
	Use:           "server",
	Short:         "Serve the experiment extractors over HTTP",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServer,
}

func init() {
	rootCmd.Flags().StringVar(&cfg.Port, "port", cfg.Port, "Port to listen on")
	rootCmd.Flags().StringVar(&cfg.ResultsDir, "results-dir", cfg.ResultsDir, "Directory holding one folder per experiment")
	rootCmd.Flags().StringVar(&cfg.SchemaPath, "schema", cfg.SchemaPath, "YAML file overriding the built-in lookup tables")
	rootCmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Enable verbose logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRouter wires services, middleware and routes
func newRouter(cfg *config.Config, logger *zap.Logger) (http.Handler, error) {
	schema, err := config.LoadSchema(cfg.SchemaPath)
	if err != nil {
		return nil, err
	}

	// Initialize Services
	analysisService, err := analysis.NewService(schema, logger)
	if err != nil {
		return nil, err
	}
	exportService := service.NewExportService()
	extractionService := service.NewExtractionService(cfg.ResultsDir, analysisService, exportService, logger)
	listService := service.NewListService(logger)

	// Initialize Handler
	handler := api.NewHandler(extractionService, exportService, listService, state.NewAppState(), logger)

	// Router Setup
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	// CORS - Allow the analysis dashboard
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Root endpoint
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Experiment data extractor is running"))
	})

	handler.RegisterRoutes(r)
	return r, nil
}

func runServer(cmd *cobra.Command, args []string) error {
	logger, err := logging.New(cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	router, err := newRouter(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("Starting server",
		zap.String("addr", "http://localhost:"+cfg.Port),
		zap.String("results_dir", cfg.ResultsDir),
		zap.Strings("allowed_origins", cfg.AllowedOrigins))

	return http.ListenAndServe(":"+cfg.Port, router)
}
