package commands

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"restaurant-site/internal/notificationsubscriber/notifier"
	"restaurant-site/internal/notificationsubscriber/subscriber"
	"restaurant-site/pkg/rabbitmq"

	"github.com/spf13/cobra"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Print order and reservation notifications",
	Long: `Subscribe to the notifications exchange and print one line per new
order or reservation until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup("notification-subscriber")
		if err != nil {
			return err
		}
		if !cfg.RabbitMQ.Enabled {
			log.Action("broker_disabled").Warn("rabbitmq.enabled is false; the server will not publish notifications")
		}

		rm, err := rabbitmq.ConnectRabbitMQ(cfg.RabbitMQ, log)
		if err != nil {
			log.Action("rabbitmq_connection_failed").Error("Failed to connect to RabbitMQ", err)
			return err
		}
		defer rm.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sub := subscriber.NewNotificationSubscriber(rm, notifier.NewNotifier(os.Stdout), log)
		err = sub.Start(ctx)
		if errors.Is(err, subscriber.ErrChannelClosed) {
			log.Action("channel_closed").Warn("Broker closed the channel")
		}
		log.Action("service_stopped").Info("Subscriber exiting")
		return err
	},
}

func init() {
	rootCmd.AddCommand(notifyCmd)
}
