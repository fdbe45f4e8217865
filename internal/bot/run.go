package bot

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"orders-bot/internal/bot/adapter/telegram"
	"orders-bot/internal/bot/app/core"
	"orders-bot/internal/bot/dialog"
	"orders-bot/internal/catalog"
	"orders-bot/internal/notify"
	database "orders-bot/internal/order/adapter/db"
	"orders-bot/internal/xpkg/config"
	xdb "orders-bot/internal/xpkg/db"
	"orders-bot/internal/xpkg/errs"
	"orders-bot/internal/xpkg/logger"
)

const janitorInterval = time.Minute

// Execute starts the chat-bot service: chat transport, dialogue engine,
// session janitor.
func Execute(ctx context.Context, mylog logger.Logger, args []string) error {
	newCtx, stop := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := parseArgs(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		mylog.Action("config_load_failed").Error("Failed to load config", err)
		return err
	}

	db, err := xdb.Start(newCtx, cfg.DB)
	if err != nil {
		mylog.Action("db_connection_failed").Error("Failed to connect to database", err)
		return err
	}
	defer db.Close()
	mylog.Action("db_connected").Info("Successful database connection")

	transport, err := telegram.New(cfg.Telegram.BotToken, mylog)
	if err != nil {
		mylog.Action("transport_connection_failed").Error("Failed to connect chat transport", err)
		return err
	}
	defer transport.Close()

	engine := buildEngine(cfg, db, transport, mylog)

	messages, err := transport.Messages(newCtx)
	if err != nil {
		mylog.Action("transport_listen_failed").Error("Failed to start receiving messages", err)
		return err
	}

	g, gCtx := errgroup.WithContext(newCtx)

	g.Go(func() error {
		err := engine.Sessions().RunJanitor(gCtx, janitorInterval)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		for {
			select {
			case <-gCtx.Done():
				return nil
			case msg, ok := <-messages:
				if !ok {
					return fmt.Errorf("message stream closed: %w", core.ErrTransportDown)
				}
				go engine.HandleMessage(gCtx, msg)
			}
		}
	})

	mylog.Action("bot_started").Info("Chat bot is running")

	if err := g.Wait(); err != nil {
		mylog.Action("bot_failed").Error("Chat bot stopped with error", err)
		return err
	}
	mylog.Action("bot_stopped").Info("Chat bot stopped")
	return nil
}

func buildEngine(cfg *config.Config, db *xdb.DB, transport *telegram.Transport, mylog logger.Logger) *dialog.Engine {
	sessions := dialog.NewManager(time.Duration(cfg.Session.TTLMinutes)*time.Minute, mylog)
	dispatcher := notify.NewDispatcher(transport, cfg.Telegram.AdminChatID, mylog)
	orderRepo := database.NewOrderRepo(db)

	return dialog.NewEngine(
		sessions,
		catalog.New(nil),
		orderRepo,
		dispatcher,
		cfg.Business,
		cfg.Telegram.AdminChatID,
		mylog,
	)
}

func parseArgs(args []string) error {
	fs := flag.NewFlagSet("chat-bot", flag.ContinueOnError)
	showHelp := fs.Bool("help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		return errs.ErrParseCmd
	}
	if *showHelp {
		fs.Usage()
		return errs.ErrHelp
	}
	return nil
}
