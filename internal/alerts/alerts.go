// Package alerts implements the broadcast alert bus (X1): a capped
// channel carrying tagged success/warning/error/information records,
// consumed by the CLI's renderer and (in the embedding application) a
// logger.
package alerts

import (
	"time"

	"github.com/patrickgunnar/galadrielcss/internal/galaerr"
)

// Kind tags an Alert's variant.
type Kind string

const (
	KindSuccess     Kind = "Success"
	KindInformation Kind = "Information"
	KindWarning     Kind = "Warning"
	KindNenyrError  Kind = "NenyrError"
	KindGaladriel   Kind = "GaladrielError"
)

// Alert is one message broadcast on the bus.
type Alert struct {
	Kind      Kind
	Start     time.Time
	End       time.Time
	DurationMS int64
	Message   string

	// NenyrPayload carries the opaque parser error text when Kind is
	// KindNenyrError.
	NenyrPayload string

	// GaladrielErr carries the structured error when Kind is
	// KindGaladriel.
	GaladrielErr *galaerr.Error
}

// capacity is the bus's buffered channel size. On overflow the oldest
// message is dropped and a warning is synthesized in its place.
const capacity = 100

// Bus is a broadcast channel with bounded capacity. Unlike a Go channel
// with multiple receivers (which distributes, not broadcasts), Bus fans
// each published Alert out to every subscriber's own buffered channel.
type Bus struct {
	subscribe   chan chan Alert
	unsubscribe chan chan Alert
	publish     chan Alert
	done        chan struct{}
}

// NewBus starts a Bus's dispatch loop and returns it. Call Close to stop
// the loop.
func NewBus() *Bus {
	b := &Bus{
		subscribe:   make(chan chan Alert),
		unsubscribe: make(chan chan Alert),
		publish:     make(chan Alert, capacity),
		done:        make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Bus) run() {
	subscribers := make(map[chan Alert]struct{})
	for {
		select {
		case sub := <-b.subscribe:
			subscribers[sub] = struct{}{}
		case sub := <-b.unsubscribe:
			delete(subscribers, sub)
			close(sub)
		case alert := <-b.publish:
			for sub := range subscribers {
				select {
				case sub <- alert:
				default:
					// Subscriber's own buffer is full: drop the oldest
					// alert for it by draining one slot, then deliver a
					// synthesized warning in its place.
					select {
					case <-sub:
					default:
					}
					select {
					case sub <- Alert{Kind: KindWarning, Start: time.Now(), Message: "alert dropped: subscriber buffer overflow"}:
					default:
					}
				}
			}
		case <-b.done:
			for sub := range subscribers {
				close(sub)
			}
			return
		}
	}
}

// Subscribe returns a channel receiving every future published Alert.
func (b *Bus) Subscribe() chan Alert {
	ch := make(chan Alert, capacity)
	b.subscribe <- ch
	return ch
}

// Unsubscribe stops delivery to ch and closes it.
func (b *Bus) Unsubscribe(ch chan Alert) {
	b.unsubscribe <- ch
}

// Close stops the bus's dispatch loop and closes all subscriber
// channels.
func (b *Bus) Close() {
	close(b.done)
}

// Publish broadcasts alert to every current subscriber.
func (b *Bus) Publish(alert Alert) {
	b.publish <- alert
}

// Success publishes a KindSuccess alert spanning [start, end].
func (b *Bus) Success(start, end time.Time, message string) {
	b.Publish(Alert{
		Kind: KindSuccess, Start: start, End: end,
		DurationMS: end.Sub(start).Milliseconds(), Message: message,
	})
}

// Information publishes a KindInformation alert.
func (b *Bus) Information(start time.Time, message string) {
	b.Publish(Alert{Kind: KindInformation, Start: start, Message: message})
}

// Warning publishes a KindWarning alert.
func (b *Bus) Warning(start time.Time, message string) {
	b.Publish(Alert{Kind: KindWarning, Start: start, Message: message})
}

// NenyrError publishes a KindNenyrError alert carrying the parser's
// opaque error payload.
func (b *Bus) NenyrError(start time.Time, payload string) {
	b.Publish(Alert{Kind: KindNenyrError, Start: start, NenyrPayload: payload})
}

// GaladrielError publishes a KindGaladriel alert carrying a structured
// core error.
func (b *Bus) GaladrielError(start time.Time, err *galaerr.Error) {
	b.Publish(Alert{Kind: KindGaladriel, Start: start, GaladrielErr: err, Message: err.Message})
}
