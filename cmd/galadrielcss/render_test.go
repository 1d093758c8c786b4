package main

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/patrickgunnar/galadrielcss/internal/alerts"
	"github.com/patrickgunnar/galadrielcss/internal/galaerr"
)

// syncBuffer guards a bytes.Buffer so the renderer goroutine and the
// test's assertions can touch it concurrently without racing.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestPrintAlertQuietSuppressesEverything(t *testing.T) {
	var buf bytes.Buffer
	printAlert(&buf, alerts.Alert{Kind: alerts.KindSuccess, Message: "compiled"}, false, true)
	assert.Empty(t, buf.String())
}

func TestPrintAlertSuccessIncludesDuration(t *testing.T) {
	var buf bytes.Buffer
	printAlert(&buf, alerts.Alert{Kind: alerts.KindSuccess, Message: "compiled app.central.nyr", DurationMS: 12}, false, false)
	assert.Contains(t, buf.String(), "compiled app.central.nyr")
	assert.Contains(t, buf.String(), "(12ms)")
}

func TestPrintAlertNenyrErrorUsesPayload(t *testing.T) {
	var buf bytes.Buffer
	printAlert(&buf, alerts.Alert{Kind: alerts.KindNenyrError, NenyrPayload: "unexpected token"}, false, false)
	assert.Contains(t, buf.String(), "unexpected token")
}

func TestPrintAlertGaladrielErrorIncludesKindAndAction(t *testing.T) {
	var buf bytes.Buffer
	err := galaerr.New(galaerr.KindFileReadFailed, galaerr.ActionNotify, "disk unreadable")
	printAlert(&buf, alerts.Alert{Kind: alerts.KindGaladriel, GaladrielErr: err}, false, false)
	out := buf.String()
	assert.Contains(t, out, string(galaerr.KindFileReadFailed))
	assert.Contains(t, out, string(galaerr.ActionNotify))
	assert.Contains(t, out, "disk unreadable")
}

func TestPrintAlertUncoloredOmitsEscapeCodes(t *testing.T) {
	var buf bytes.Buffer
	printAlert(&buf, alerts.Alert{Kind: alerts.KindWarning, Message: "slow read"}, false, false)
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestRunRendererDrainsPublishedAlerts(t *testing.T) {
	bus := alerts.NewBus()
	buf := &syncBuffer{}
	ch := runRenderer(buf, bus, false, false)
	defer bus.Unsubscribe(ch)

	bus.Success(time.Now(), time.Now(), "done")

	assert.Eventually(t, func() bool {
		return bytes.Contains([]byte(buf.String()), []byte("done"))
	}, time.Second, 5*time.Millisecond)
}
