package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	assistantx "github.com/naruebet/voicecart/agent/assistant"
	"github.com/naruebet/voicecart/agent/catalog"
	orderx "github.com/naruebet/voicecart/agent/order"
	promptx "github.com/naruebet/voicecart/agent/prompt"
	resolverx "github.com/naruebet/voicecart/agent/resolver"
	statex "github.com/naruebet/voicecart/agent/state"
	toolx "github.com/naruebet/voicecart/agent/tool"
	configx "github.com/naruebet/voicecart/pkg/config"
	_ "github.com/naruebet/voicecart/pkg/logger/autoload"
	openrouterx "github.com/naruebet/voicecart/pkg/openrouter"
	webhookx "github.com/naruebet/voicecart/pkg/webhook"
)

type AppConfig struct {
	ProductsFile string `envconfig:"PRODUCTS_FILE" split_words:"true" default:"products.json"`
	OrdersFile   string `envconfig:"ORDERS_FILE" split_words:"true" default:"orders.json"`
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("")

	catalogStore, err := catalog.NewFileStore(appCfg.ProductsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("open catalog store")
	}
	orderStore, err := orderx.NewFileStore(appCfg.OrdersFile)
	if err != nil {
		log.Fatal().Err(err).Msg("open order store")
	}
	builder, err := orderx.NewBuilder(catalogStore, orderStore)
	if err != nil {
		log.Fatal().Err(err).Msg("build order builder")
	}

	session := statex.NewSessionState(time.Now())
	log.Info().Str("session_id", session.SessionID).Msg("starting voice shopping assistant")

	deps := toolx.Deps{
		Catalog:  catalogStore,
		Orders:   orderStore,
		Builder:  builder,
		Resolver: resolverx.New(),
		Session:  session,
	}

	webhookCfg := configx.MustNew[webhookx.Config]("WEBHOOK")
	notifier, err := webhookx.NewClient(*webhookCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("build order webhook client")
	}
	if notifier != nil {
		deps.Notifier = notifier
	}

	infos, executor, err := toolx.Build(deps)
	if err != nil {
		log.Fatal().Err(err).Msg("build tool surface")
	}

	openRouterCfg := configx.MustNew[openrouterx.Config]("OPENROUTER")
	chatModel, err := openRouterCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("create chat model")
	}

	agent, err := assistantx.New(ctx, chatModel, promptx.Shopping(), infos, executor)
	if err != nil {
		log.Fatal().Err(err).Msg("build assistant")
	}

	fmt.Println("Voice shopping assistant ready. Type a message, or 'exit' to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "exit" || text == "quit" {
			break
		}

		reply, err := agent.HandleMessage(ctx, text)
		if err != nil {
			log.Error().Err(err).Msg("handle message")
			fmt.Println("Sorry, something went wrong. Please try again.")
			continue
		}
		fmt.Println(reply)
	}

	log.Info().Str("session_id", session.SessionID).Int("orders", len(session.Orders)).Msg("session ended")
}
