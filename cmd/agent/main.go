package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"brquote/pkg/core/agent"
	"brquote/pkg/core/config"
	"brquote/pkg/core/logging"
	"brquote/pkg/core/provider"
	"brquote/pkg/core/quotes"
	"brquote/pkg/core/tools"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file")
	prompt := flag.String("prompt", "", "question to answer using the data tools")
	providerName := flag.String("provider", "", "override the configured LLM provider (gemini, deepseek)")
	flag.Parse()

	godotenv.Load()

	if *prompt == "" {
		fmt.Fprintln(os.Stderr, "usage: agent -prompt \"<question>\" [-config config/config.yaml] [-provider gemini]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		cfg = config.Default()
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.File)
	log := logging.Component("main")

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

	manager := agent.NewManager(agent.Config{
		ActiveProvider: cfg.Agent.ActiveProvider,
		Model:          cfg.Agent.Model,
		MaxToolTurns:   cfg.Agent.MaxToolTurns,
	})
	if *providerName != "" {
		if err := manager.SetActiveProvider(*providerName); err != nil {
			log.WithError(err).Fatal("select provider")
		}
	}

	loop := agent.NewLoop(registry, manager)
	answer, err := loop.Run(context.Background(), *prompt)
	if err != nil {
		log.WithError(err).Fatal("agent run failed")
	}
	fmt.Println(answer)
}
