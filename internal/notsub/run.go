package notsub

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"orders-bot/internal/bot/adapter/telegram"
	"orders-bot/internal/notify"
	"orders-bot/internal/notsub/subscriber"
	"orders-bot/internal/xpkg/config"
	"orders-bot/internal/xpkg/errs"
	"orders-bot/internal/xpkg/logger"
	"orders-bot/pkg/rabbitmq"
)

// Execute starts the notification subscriber service.
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

	// Sender-only transport: the subscriber never polls for updates.
	transport, err := telegram.New(cfg.Telegram.BotToken, mylog)
	if err != nil {
		mylog.Action("transport_connection_failed").Error("Failed to connect chat transport", err)
		return err
	}
	defer transport.Close()

	mb, err := rabbitmq.New(context.Background(), *cfg.RMQ, mylog)
	if err != nil {
		mylog.Action("mb_connection_failed").Error("Failed to connect to message broker", err)
		return err
	}
	mylog.Action("mb_connected").Info("Successful message broker connection")

	dispatcher := notify.NewDispatcher(transport, cfg.Telegram.AdminChatID, mylog)
	sub := subscriber.New(newCtx, context.Background(), mb, dispatcher, mylog)

	runErrCh := make(chan error, 1)
	go func() {
		runErrCh <- sub.Run()
	}()

	select {
	case <-newCtx.Done():
		mylog.Action("shutdown_signal_received").Info("Shutdown signal received")
		return sub.Stop(context.Background())
	case err := <-runErrCh:
		if err != nil {
			mylog.Action("subscriber_failed").Error("Subscriber failed unexpectedly", err)
			return err
		}
		return sub.Stop(context.Background())
	}
}

func parseArgs(args []string) error {
	fs := flag.NewFlagSet("notification-subscriber", flag.ContinueOnError)
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
