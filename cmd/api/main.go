package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"brquote/pkg/api/execute"
	"brquote/pkg/core/config"
	"brquote/pkg/core/logging"
	"brquote/pkg/core/provider"
	"brquote/pkg/core/quotes"
	"brquote/pkg/core/tools"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file")
	flag.Parse()

	// Load environment variables (.env is optional)
	godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		cfg = config.Default()
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.File)
	log := logging.Component("main")
	if err != nil {
		log.WithField("path", *configPath).Warn("config file not readable, using defaults")
	}
	if cfg.Provider.Token == "" {
		log.WithField("env", cfg.Provider.TokenEnv).Warn("provider token not set, requests will be unauthenticated")
	}

	client := provider.NewClient(cfg.Provider.BaseURL, cfg.Provider.Token, cfg.Provider.Timeout())
	svc := quotes.NewService(client, quotes.SuffixPolicy(cfg.Fanout.TickerSuffix), cfg.Fanout.Workers)

	schema, err := tools.LoadSchema(cfg.SchemaPath)
	if err != nil {
		log.WithError(err).Fatal("load tool schema")
	}
	registry := tools.NewRegistry(schema)
	if err := tools.RegisterQuoteFunctions(registry, svc); err != nil {
		log.WithError(err).Fatal("register tool handlers")
	}
	if missing := registry.MissingHandlers(); len(missing) > 0 {
		log.WithField("functions", missing).Fatal("tool schema declares functions without handlers")
	}

	handler := execute.NewHandler(registry)
	http.HandleFunc("/execute", handler.HandleExecute)

	log.WithFields(logging.Fields{
		"addr":      cfg.Server.Addr,
		"functions": len(schema.Functions),
	}).Info("dispatch server starting")
	if err := http.ListenAndServe(cfg.Server.Addr, nil); err != nil {
		log.WithError(err).Error("server failed")
		os.Exit(1)
	}
}
