package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(ch chan []byte) []string {
	var out []string
	for {
		select {
		case msg := <-ch:
			out = append(out, string(msg))
		default:
			return out
		}
	}
}

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	assert.Equal(t, 0, b.ClientCount())
	ch := b.Subscribe()
	assert.Equal(t, 1, b.ClientCount())
	b.Unsubscribe(ch)
	assert.Equal(t, 0, b.ClientCount())
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(Event{Type: "kegiatan.created", Data: map[string]string{"id": "k1"}})

	select {
	case msg := <-ch:
		s := string(msg)
		assert.Contains(t, s, "id: 1\n")
		assert.Contains(t, s, "event: kegiatan.created\n")
		assert.Contains(t, s, `data: {"id":"k1"}`)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestPublishChange_StatsThrottle(t *testing.T) {
	b := NewBroker(500 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishChange("balita", Created, "a")
	b.PublishChange("pemeriksaan", Updated, "p")
	b.PublishChange("balita", "renamed", "ignored")

	time.Sleep(50 * time.Millisecond)
	var stats, changes []string
	for _, m := range drain(ch) {
		if strings.Contains(m, "event: "+StatsUpdated) {
			stats = append(stats, m)
		} else {
			changes = append(changes, m)
		}
	}
	require.Len(t, changes, 2)
	assert.Contains(t, changes[0], "event: balita.created")
	assert.Contains(t, changes[1], "event: pemeriksaan.updated")
	assert.Len(t, stats, 1, "stats.updated must be throttled")
}

func TestPublishChange_StatsAgainAfterThrottle(t *testing.T) {
	b := NewBroker(50 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishChange("kegiatan", Deleted, "k")
	time.Sleep(100 * time.Millisecond)
	b.PublishChange("kegiatan", Deleted, "k2")
	time.Sleep(50 * time.Millisecond)

	n := 0
	for _, m := range drain(ch) {
		if strings.Contains(m, StatsUpdated) {
			n++
		}
	}
	assert.Equal(t, 2, n)
}

func TestSSEHandler(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	require.Equal(t, 1, b.ClientCount())

	b.PublishChange("berita", Updated, "jadwal-imunisasi")
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	body := w.Body.String()
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, body, "event: berita.updated")
	assert.Contains(t, body, `"id":"jadwal-imunisasi"`)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, b.ClientCount(), "client not cleaned up after disconnect")
}

func TestPublishDropsOnFullBuffer(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	for i := 0; i < 70; i++ {
		b.Publish(Event{Type: "test", Data: map[string]int{"i": i}})
	}
	assert.Equal(t, 1, b.ClientCount())
}

func TestCloseClosesSubscribers(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	ch := b.Subscribe()
	require.Equal(t, 1, b.ClientCount())

	b.Close()

	select {
	case _, ok := <-ch:
		assert.False(t, ok, "expected subscriber channel to be closed")
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel close")
	}
	assert.Equal(t, 0, b.ClientCount())

	b.Publish(Event{Type: "x", Data: nil})
	b.PublishChange("balita", Updated, "a")
	b.Close()
}
