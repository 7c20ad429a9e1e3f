package app

import (
	log "github.com/sirupsen/logrus"

	"burger/pkg/domain/service"
)

type eventDispatcher struct {
	metrics *Metrics
}

func newEventDispatcher(metrics *Metrics) service.EventDispatcher {
	return &eventDispatcher{metrics: metrics}
}

func (d *eventDispatcher) Dispatch(event service.Event) error {
	d.metrics.events.WithLabelValues(event.Type()).Inc()
	log.WithFields(log.Fields{
		"type":  event.Type(),
		"event": event,
	}).Info("domain event")
	return nil
}
