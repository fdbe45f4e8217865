package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"orders-bot/internal/bot"
	"orders-bot/internal/notsub"
	"orders-bot/internal/order"
	"orders-bot/internal/xpkg/errs"
	"orders-bot/internal/xpkg/logger"
)

func main() {
	mylogger, err := logger.New("DEBUG")
	if err != nil {
		log.Fatalf("log error: %v", err)
	}

	mylogger.Action("orders_bot_started").Info("Successfully started")
	// Global flags for selecting the service mode
	fs := flag.NewFlagSet("main", flag.ExitOnError)
	mode := fs.String("mode", "", "service to run: api-service | chat-bot | notification-subscriber")

	// Only parse the first few args for `--mode`, the rest go to the service
	args := os.Args[1:]
	modeArgs := []string{}
	for i, arg := range args {
		if strings.HasPrefix(arg, "--mode") || strings.HasPrefix(arg, "-mode") {
			modeArgs = args[:i+1]
			break
		}
	}
	// parse mode
	if err := fs.Parse(modeArgs); err != nil {
		mylogger.Action("orders_bot_failed").Error("Failed to parse flags", err)
		help(fs)
		return
	}

	if *mode == "" {
		mylogger.Action("orders_bot_failed").Error("Failed to start orders bot", errs.ErrModeFlag)
		help(fs)
		return
	}

	// Remaining args after parsing --mode
	remainingArgs := args[len(modeArgs):]

	ctx := context.Background()
	switch *mode {
	case "api-service", "api":
		l := mylogger.With("service", "api-service")
		l.Action("api_service_started").Info("Successfully started")
		if err := order.Execute(ctx, l, remainingArgs); err != nil {
			l.Action("api_service_failed").Error("Error in api-service", err)
			if !errors.Is(err, errs.ErrHelp) {
				log.Fatalf("failed to execute api-service: %s", err)
			}
		}
		l.Action("api_service_completed").Info("Successfully completed")

	case "chat-bot", "bot":
		l := mylogger.With("service", "chat-bot")

		l.Action("chat_bot_started").Info("Successfully started")
		if err := bot.Execute(ctx, l, remainingArgs); err != nil {
			l.Action("chat_bot_failed").Error("Error in chat-bot", err)

			if !errors.Is(err, errs.ErrHelp) {
				log.Fatalf("failed to execute chat-bot: %s", err)
			}
		}
		l.Action("chat_bot_completed").Info("Successfully completed")

	case "notification-subscriber", "ns":
		l := mylogger.With("service", "notification-subscriber")

		l.Action("notification_subscriber_started").Info("Successfully started")
		if err := notsub.Execute(ctx, l, remainingArgs); err != nil {
			l.Action("notification_subscriber_failed").Error("Error in notification-subscriber", err)

			if !errors.Is(err, errs.ErrHelp) {
				log.Fatalf("failed to execute notification-subscriber: %s", err)
			}
		}
		l.Action("notification_subscriber_completed").Info("Successfully completed")

	default:
		mylogger.Action("orders_bot_failed").Error("Failed to start orders bot", errs.ErrUnknownService)
		help(fs)
	}
}

func help(fs *flag.FlagSet) {
	fmt.Println("\nUsage:")
	fs.PrintDefaults()
	fmt.Println("\nExample:")
	fmt.Println("  ./orders-bot --mode=api-service --port=3000")
}
