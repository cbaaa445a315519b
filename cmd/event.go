package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/online-school/internal/core/events"
	"github.com/frahmantamala/online-school/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Inspect the moderation events written to the audit log`,
}

var publishEventCmd = &cobra.Command{
	Use:       "publish [event-type]",
	Short:     "Publish a sample event through the audit log",
	Long:      `Publish a sample account.banned, account.unbanned or sessions.reaped event to check the audit log output`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{events.EventTypeAccountBanned, events.EventTypeAccountUnbanned, events.EventTypeSessionsReaped},
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishSampleEvent(args[0])
	},
}

var (
	eventAccountID int64
	eventReason    string
)

func sampleEvent(eventType string) (events.Event, error) {
	switch eventType {
	case events.EventTypeAccountBanned:
		return events.NewAccountBannedEvent(eventAccountID, eventReason, "cli", 0), nil
	case events.EventTypeAccountUnbanned:
		return events.NewAccountUnbannedEvent(eventAccountID, 0), nil
	case events.EventTypeSessionsReaped:
		return events.NewSessionsReapedEvent(0, time.Now()), nil
	default:
		return nil, fmt.Errorf("unknown event type %q", eventType)
	}
}

func publishSampleEvent(eventType string) error {
	lg := logger.LoggerWrapper()

	event, err := sampleEvent(eventType)
	if err != nil {
		return err
	}

	bus := events.NewEventBus(lg)
	events.RegisterAuditLog(bus, lg)

	lg.Info("publishing sample event", "event_type", eventType, "event_id", event.EventID())
	if err := bus.PublishSync(context.Background(), event); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}

func init() {
	publishEventCmd.Flags().Int64Var(&eventAccountID, "account-id", 1, "account id carried by the sample event")
	publishEventCmd.Flags().StringVar(&eventReason, "reason", "sample ban", "ban reason carried by account.banned")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
