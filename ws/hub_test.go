package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/c14220110/hospital-backend/pkg/events"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestHub_BroadcastsEventsToClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	e := echo.New()
	e.GET("/ws", ServeWS(hub, NewUpgrader(nil)))
	srv := httptest.NewServer(e)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// registration is asynchronous; retry until the client is in the set
	var got events.Event
	deadline := time.Now().Add(2 * time.Second)
	conn.SetReadDeadline(deadline)
	received := make(chan error, 1)
	go func() {
		_, msg, err := conn.ReadMessage()
		if err == nil {
			err = json.Unmarshal(msg, &got)
		}
		received <- err
	}()

	for time.Now().Before(deadline) {
		if err := hub.Publish(ctx, events.New(events.CitaCreada, "cita", 5, nil)); err != nil {
			t.Fatalf("publish: %v", err)
		}
		select {
		case err := <-received:
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if got.Type != events.CitaCreada || got.EntityID != 5 {
				t.Errorf("unexpected event %+v", got)
			}
			return
		case <-time.After(50 * time.Millisecond):
		}
	}
	t.Fatal("no event received")
}

func TestHub_PublishAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)
	cancel()
	<-hub.done

	// fill the buffer so the send cannot succeed
	for i := 0; i < cap(hub.Broadcast); i++ {
		hub.Broadcast <- nil
	}
	if err := hub.Publish(context.Background(), events.Event{}); err == nil {
		t.Error("expected error once the hub stopped")
	}
}

func TestUpgrader_CheckOrigin(t *testing.T) {
	up := NewUpgrader([]string{"http://localhost:3000"})
	ok := httptest.NewRequest(http.MethodGet, "/ws", nil)
	ok.Header.Set("Origin", "http://localhost:3000")
	bad := httptest.NewRequest(http.MethodGet, "/ws", nil)
	bad.Header.Set("Origin", "http://evil.test")

	if !up.CheckOrigin(ok) {
		t.Error("expected configured origin accepted")
	}
	if up.CheckOrigin(bad) {
		t.Error("expected foreign origin rejected")
	}
}
