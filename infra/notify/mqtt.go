// Package notify announces completed schedule runs over MQTT so downstream
// consumers (budgeting, UI) can react without polling the artifact store.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	corelogger "github.com/kilianp07/stripboard/core/logger"
	"github.com/kilianp07/stripboard/core/model"
	"github.com/kilianp07/stripboard/infra/logger"
)

// Config defines the MQTT announcement settings.
type Config struct {
	Enabled  bool   `json:"enabled"`
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Topic    string `json:"topic"`
	QoS      byte   `json:"qos"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "stripboard-notifier"
	}
	if c.Topic == "" {
		c.Topic = "stripboard/schedules"
	}
}

// Validate checks mandatory fields when the notifier is enabled.
func (c Config) Validate() error {
	if c.Enabled && c.Broker == "" {
		return fmt.Errorf("notify: broker is required")
	}
	return nil
}

// MQTTNotifier publishes schedule summaries on a topic.
type MQTTNotifier struct {
	client pahomqtt.Client
	topic  string
	qos    byte
	log    corelogger.Logger
}

// New connects to the broker and returns the notifier.
func New(cfg Config) (*MQTTNotifier, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := pahomqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true)
	client := pahomqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10*time.Second) || token.Error() != nil {
		return nil, fmt.Errorf("notify: connect to %s: %v", cfg.Broker, token.Error())
	}
	return &MQTTNotifier{
		client: client,
		topic:  cfg.Topic,
		qos:    cfg.QoS,
		log:    logger.New("mqtt-notifier"),
	}, nil
}

// summary is the wire shape announced per run. The full result stays in the
// artifact store; the message only carries what a consumer needs to react.
type summary struct {
	RunID      string    `json:"run_id"`
	StartDate  string    `json:"start_date"`
	TotalDays  int       `json:"total_days"`
	Locations  int       `json:"locations"`
	Violations int       `json:"union_rule_violations"`
	Degraded   bool      `json:"degraded"`
	SavedTo    string    `json:"saved_to,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// PublishResult implements sched.Notifier.
func (n *MQTTNotifier) PublishResult(ctx context.Context, res model.ScheduleResult) error {
	payload, err := json.Marshal(summary{
		RunID:      res.RunID,
		StartDate:  res.StartDate,
		TotalDays:  res.Schedule.TotalDays,
		Locations:  len(res.LocationPlan.Locations),
		Violations: len(res.CrewAllocation.UnionRuleViolations),
		Degraded: res.LocationPlan.IsFallback || res.CrewAllocation.IsFallback ||
			res.Schedule.IsFallback,
		SavedTo:   res.SavedTo,
		Timestamp: res.Timestamp,
	})
	if err != nil {
		return err
	}
	token := n.client.Publish(n.topic, n.qos, false, payload)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close disconnects from the broker.
func (n *MQTTNotifier) Close() {
	n.client.Disconnect(250)
}
