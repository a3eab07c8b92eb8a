package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/kilianp07/stripboard/config"
	corelogger "github.com/kilianp07/stripboard/core/logger"
	"github.com/kilianp07/stripboard/core/model"
	coreoracle "github.com/kilianp07/stripboard/core/oracle"
	"github.com/kilianp07/stripboard/core/sched"
	"github.com/kilianp07/stripboard/infra/logger"
	"github.com/kilianp07/stripboard/infra/metrics"
	"github.com/kilianp07/stripboard/infra/notify"
	infraoracle "github.com/kilianp07/stripboard/infra/oracle"
	"github.com/kilianp07/stripboard/infra/store"
	"github.com/kilianp07/stripboard/internal/eventbus"
)

// Service wires the scheduling pipeline to its infrastructure: oracle
// backend, result store, metrics sinks and the optional MQTT notifier.
type Service struct {
	Coordinator *sched.Coordinator
	Store       *store.Store
	bus         eventbus.EventBus
	notifier    *notify.MQTTNotifier
	log         corelogger.Logger
	promEnabled bool
	promPort    string
	promOnce    sync.Once
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var planner coreoracle.Oracle
	switch cfg.Oracle.Mode {
	case "http":
		o, err := infraoracle.New(cfg.Oracle.HTTP)
		if err != nil {
			return nil, fmt.Errorf("oracle client: %w", err)
		}
		planner = o
	default:
		planner = coreoracle.RuleOracle{
			MaxHoursPerDay: cfg.Scheduling.MaxWorkHours,
			MaxMovesPerDay: cfg.Scheduling.MaxCompanyMovesPerDay,
		}
	}

	sink, err := metrics.NewSink(cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	st, err := store.New(cfg.Storage, logger.New("store"))
	if err != nil {
		return nil, fmt.Errorf("result store: %w", err)
	}

	bus := eventbus.New()
	coord, err := sched.NewCoordinator(planner, cfg.Scheduling, logger.New("coordinator"))
	if err != nil {
		return nil, fmt.Errorf("coordinator: %w", err)
	}
	coord.SetResultStore(st)
	coord.SetMetricsSink(sink)
	coord.SetEventBus(bus)

	svc := &Service{
		Coordinator: coord,
		Store:       st,
		bus:         bus,
		log:         logg,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}
	if cfg.Notify.Enabled {
		n, err := notify.New(cfg.Notify)
		if err != nil {
			return nil, fmt.Errorf("notifier: %w", err)
		}
		coord.SetNotifier(n)
		svc.notifier = n
	}
	return svc, nil
}

// Run executes one scheduling request. When Prometheus is enabled the
// metrics endpoint is started on the first call and served for the lifetime
// of that call's context.
func (s *Service) Run(ctx context.Context, req sched.Request) (model.ScheduleResult, error) {
	s.promOnce.Do(func() {
		if s.promEnabled {
			go func() {
				if err := metrics.StartPromServer(ctx, s.promPort, s.log); err != nil {
					s.log.Errorf("prom server: %v", err)
				}
			}()
		}
		go s.logEvents(ctx)
	})
	return s.Coordinator.GenerateSchedule(ctx, req)
}

func (s *Service) logEvents(ctx context.Context) {
	ch, cancel := s.bus.Subscribe()
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			s.log.Debugf("event: %+v", ev)
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if s.notifier != nil {
		s.notifier.Close()
	}
	return nil
}
