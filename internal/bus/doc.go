// Package bus provides the in-process publish/subscribe dispatcher that
// decouples network completions and authentication changes from the screens
// that react to them. It is structured into small files by concern:
//
//   - bus.go: Bus type, Register/Unregister/Publish/Close.
//   - events.go: Tag, Event and the concrete event variants.
//   - recorder.go: bounded in-memory subscriber used for inspection and tests.
//   - metrics.go: Prometheus counters for publishes, deliveries and panics.
//
// Subscribers declare their handlers explicitly as a Handlers map keyed by
// Tag. There is no reflection-based discovery.
//
// Delivery is synchronous on the publishing goroutine. Events published from
// inside a handler are queued and delivered after the current event has
// reached all of its recipients, so nested publishes never interleave with an
// in-flight delivery.
package bus
