package connectivity

import (
	"testing"
	"time"
)

func TestMonitorStartsOnline(t *testing.T) {
	m := NewMonitor()
	if !m.Online() {
		t.Fatal("new monitor should start online")
	}
}

func TestMonitorSignalsOfflineToOnlineTransition(t *testing.T) {
	m := NewMonitor()
	ch := m.Subscribe()

	m.SetOnline(false)
	select {
	case <-ch:
		t.Fatal("going offline must not signal")
	default:
	}

	m.SetOnline(true)
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("offline -> online transition was not signalled")
	}
}

func TestMonitorRepeatedOnlineHeartbeatIsNoOp(t *testing.T) {
	m := NewMonitor()
	ch := m.Subscribe()

	m.SetOnline(true)
	m.SetOnline(true)

	select {
	case <-ch:
		t.Fatal("online -> online must not signal")
	default:
	}
}

func TestMonitorUnsubscribeClosesChannel(t *testing.T) {
	m := NewMonitor()
	ch := m.Subscribe()
	m.Unsubscribe(ch)

	if _, ok := <-ch; ok {
		t.Fatal("unsubscribed channel should be closed")
	}

	// Double unsubscribe must not panic
	m.Unsubscribe(ch)
}

func TestMonitorSlowSubscriberDoesNotBlockHeartbeat(t *testing.T) {
	m := NewMonitor()
	_ = m.Subscribe() // never read

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			m.SetOnline(false)
			m.SetOnline(true)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("SetOnline blocked on a slow subscriber")
	}
}
