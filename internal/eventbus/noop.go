package eventbus

import "context"

// NoopBus discards every event. Used when EVENT_BUS_ENABLED=false,
// keeping the Coordinator's publish calls unconditional (spec §4.2:
// the bus is a side channel, never load-bearing for correctness).
type NoopBus struct{}

func (NoopBus) PublishDiscovered(context.Context, DiscoveredEvent) error { return nil }
func (NoopBus) PublishFetched(context.Context, FetchedEvent) error       { return nil }
func (NoopBus) PublishParsed(context.Context, ParsedEvent) error         { return nil }
func (NoopBus) PublishFailed(context.Context, FailedEvent) error         { return nil }
func (NoopBus) Close() error                                            { return nil }
