// Package noop provides an EventPublisher that drops every event.
package noop

import (
	"context"

	interfaces "github.com/sheikh-saqib/multi-store-cash-ledger/internal/interfaces"
)

type Publisher struct{}

func (Publisher) Publish(context.Context, string, any) error { return nil }

func (Publisher) Close() error { return nil }

var _ interfaces.EventPublisher = Publisher{}
