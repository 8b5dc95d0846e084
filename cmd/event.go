package cmd

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/frahmantamala/vehicle-service-shop/internal/core/events"
	"github.com/frahmantamala/vehicle-service-shop/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Audit event commands",
	Long:  `Inspect the audit event types and publish a test event through the audit log`,
}

var listEventTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List audit event types",
	Run: func(cmd *cobra.Command, args []string) {
		for _, eventType := range events.AuditEventTypes {
			fmt.Fprintln(cmd.OutOrStdout(), eventType)
		}
	},
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test audit event",
	Long:  `Publish a test event to the audit log to check the log pipeline`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(cmd.Context(), args[0])
	},
}

var eventData string

func publishTestEvent(ctx context.Context, eventType string) error {
	if !slices.Contains(events.AuditEventTypes, eventType) {
		return fmt.Errorf("unknown audit event type %q", eventType)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	lg := logger.LoggerWrapper()
	bus := events.NewEventBus(lg)
	events.RegisterAuditLog(bus, lg)

	testEvent := events.BaseEvent{
		ID:        fmt.Sprintf("cli-%d", time.Now().Unix()),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data: map[string]interface{}{
			"message": eventData,
			"source":  "cli-command",
		},
	}

	lg.Info("publishing test event", "event_type", eventType)
	return bus.PublishSync(ctx, testEvent)
}

func init() {
	publishEventCmd.Flags().StringVar(&eventData, "data", "test message", "Event data message")

	eventCmd.AddCommand(listEventTypesCmd)
	eventCmd.AddCommand(publishEventCmd)
}
