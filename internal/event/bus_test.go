package event

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestInProc_FanOut(t *testing.T) {
	b := NewInProc()
	var got []Event
	b.Subscribe(func(e Event) { got = append(got, e) })
	b.Subscribe(func(e Event) { got = append(got, e) })

	b.Publish(context.Background(), Event{Type: TypeLoanApproved, LoanID: "abc"})

	if len(got) != 2 {
		t.Fatalf("deliveries = %d, want 2", len(got))
	}
	if got[0].Type != TypeLoanApproved || got[0].LoanID != "abc" {
		t.Fatalf("unexpected event: %+v", got[0])
	}
}

func TestRedisBus_PublishesJSON(t *testing.T) {
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	sub := rdb.Subscribe(context.Background(), "loan-events")
	t.Cleanup(func() { _ = sub.Close() })
	if _, err := sub.Receive(context.Background()); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	bus := NewRedisBus(rdb, "")
	bus.Publish(context.Background(), Event{Type: TypeLoanReleased, LoanID: "def"})

	select {
	case msg := <-sub.Channel():
		var e Event
		if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if e.Type != TypeLoanReleased || e.LoanID != "def" {
			t.Fatalf("unexpected event: %+v", e)
		}
		if e.At.IsZero() {
			t.Fatalf("event timestamp not stamped")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no event received")
	}
}
