package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tanpawarit/Chative-Voice-Commerce/agent/agents/conversation"
	"github.com/tanpawarit/Chative-Voice-Commerce/agent/agents/persona"
	contractx "github.com/tanpawarit/Chative-Voice-Commerce/agent/contract"
	llmx "github.com/tanpawarit/Chative-Voice-Commerce/agent/llm"
	configx "github.com/tanpawarit/Chative-Voice-Commerce/pkg/config"
	logx "github.com/tanpawarit/Chative-Voice-Commerce/pkg/logger"
	openrouterx "github.com/tanpawarit/Chative-Voice-Commerce/pkg/openrouter"
	qstashx "github.com/tanpawarit/Chative-Voice-Commerce/pkg/qstash"
	"github.com/tanpawarit/Chative-Voice-Commerce/server"
)

var (
	modeFlag  = flag.String("mode", "", "run mode: repl or http (overrides APP_MODE)")
	agentFlag = flag.String("agent", "", "agent for repl mode: shop, wellness or adventure (overrides APP_AGENT)")
)

type AppConfig struct {
	Mode            string        `split_words:"true" default:"repl"`
	Agent           string        `split_words:"true" default:"shop"`
	DataDir         string        `split_words:"true" default:"records"`
	RecordBackend   string        `split_words:"true" default:"file"`
	SessionBackend  string        `split_words:"true" default:"memory"`
	SessionTTL      time.Duration `split_words:"true" default:"24h"`
	HistoryLimit    int           `split_words:"true" default:"40"`
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	ShutdownTimeout time.Duration `split_words:"true" default:"5s"`
	PublicURL       string        `split_words:"true"`
	Preflight       bool          `split_words:"true" default:"true"`
}

func main() {
	appCfg := configx.MustNew[AppConfig]("APP")
	logCfg := configx.MustNew[logx.Config]("LOG")
	logx.Init(*logCfg)

	if v := strings.TrimSpace(*modeFlag); v != "" {
		appCfg.Mode = v
	}
	if v := strings.TrimSpace(*agentFlag); v != "" {
		appCfg.Agent = v
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	llmCfg := configx.MustNew[llmx.Config]("LLM")
	if appCfg.Preflight {
		client := openrouterx.NewClient(llmCfg.OpenRouterFor(""))
		models := make([]string, 0, len(contractx.AgentTypes))
		for _, agentType := range contractx.AgentTypes {
			models = append(models, llmCfg.OpenRouterFor(agentType).Model)
		}
		if err := openrouterx.Preflight(ctx, client, models...); err != nil {
			log.Fatal().Err(err).Msg("llm preflight failed")
		}
	}

	qstashCfg := configx.MustNew[qstashx.Config]("QSTASH")
	qstashClient := qstashx.MustNew(*qstashCfg)

	deps, closeDeps, err := buildDeps(ctx, *appCfg, *qstashCfg, qstashClient)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build domain dependencies")
	}
	defer closeDeps()

	sessions, err := buildSessionStore(ctx, *appCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build session store")
	}

	personas, err := persona.NewRegistry(ctx, *llmCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build personas")
	}

	svc, err := conversation.New(sessions, personas, deps, conversation.Config{HistoryLimit: appCfg.HistoryLimit})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build conversation service")
	}

	switch strings.ToLower(strings.TrimSpace(appCfg.Mode)) {
	case "http":
		handler := server.NewHandler(svc)
		if hookURL := orderHookURL(*appCfg, *qstashCfg); hookURL != "" {
			handler.WithOrderHook(qstashClient, qstashx.SignatureHeader, hookURL)
		}
		if err := server.Serve(ctx, appCfg.HTTPAddr, server.NewRouter(handler), appCfg.ShutdownTimeout); err != nil {
			log.Fatal().Err(err).Msg("http server failed")
		}
	case "repl":
		agentType, err := contractx.ParseAgentType(appCfg.Agent)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid agent")
		}
		if err := runREPL(ctx, svc, agentType, os.Stdin, os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("repl failed")
		}
	default:
		log.Fatal().Str("mode", appCfg.Mode).Msg("unknown mode, want repl or http")
	}
}

// orderHookURL is set only when deliveries can be verified.
func orderHookURL(app AppConfig, cfg qstashx.Config) string {
	base := strings.TrimRight(strings.TrimSpace(app.PublicURL), "/")
	if base == "" || strings.TrimSpace(cfg.CurrentSigningKey) == "" {
		return ""
	}
	return base + server.OrderHookPath
}
