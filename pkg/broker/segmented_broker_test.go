package broker

import (
	"testing"
	"time"
)

func TestSegmentedBroker_AdminChannel(t *testing.T) {
	broker := NewSegmentedBroker()

	client1 := broker.Subscribe(ChannelAdmin, "")
	client2 := broker.Subscribe(ChannelAdmin, "")

	event := Event{
		Type:      "booking.created",
		Timestamp: time.Now().Unix(),
		Data: map[string]interface{}{
			"booking_id": "bk_1",
		},
	}

	go broker.Publish(ChannelAdmin, "", event)

	for i, client := range []chan Event{client1, client2} {
		select {
		case e := <-client:
			if e.Type != "booking.created" {
				t.Errorf("Expected booking.created, got %s", e.Type)
			}
		case <-time.After(time.Second):
			t.Errorf("Client %d timeout", i+1)
		}
	}
}

func TestSegmentedBroker_TechChannel_Isolation(t *testing.T) {
	broker := NewSegmentedBroker()

	techA := broker.Subscribe(ChannelTech, "tech_a")
	techB := broker.Subscribe(ChannelTech, "tech_b")

	event := Event{
		Type:      "job.status_changed",
		Timestamp: time.Now().Unix(),
		Data: map[string]interface{}{
			"job_id": "J1",
			"status": "completed",
		},
	}

	go broker.Publish(ChannelTech, "tech_a", event)

	select {
	case e := <-techA:
		if e.Type != "job.status_changed" {
			t.Errorf("Expected job.status_changed, got %s", e.Type)
		}
	case <-time.After(time.Second):
		t.Error("Tech A timeout")
	}

	select {
	case <-techB:
		t.Error("Tech B should not receive event meant for Tech A")
	case <-time.After(100 * time.Millisecond):
		// Expected: no event
	}
}

func TestSegmentedBroker_AdminIgnoresID(t *testing.T) {
	broker := NewSegmentedBroker()

	// Admin subscriptions share one segment no matter what id was passed
	client := broker.Subscribe(ChannelAdmin, "whatever")

	go broker.Publish(ChannelAdmin, "other", Event{Type: "inventory.low_stock"})

	select {
	case e := <-client:
		if e.Type != "inventory.low_stock" {
			t.Errorf("Expected inventory.low_stock, got %s", e.Type)
		}
	case <-time.After(time.Second):
		t.Error("Admin client timeout")
	}
}

func TestSegmentedBroker_Unsubscribe(t *testing.T) {
	broker := NewSegmentedBroker()

	client := broker.Subscribe(ChannelTech, "tech_a")

	stats := broker.Stats()
	if stats["tech_clients"] != 1 {
		t.Errorf("Expected 1 tech client, got %d", stats["tech_clients"])
	}

	broker.Unsubscribe(ChannelTech, "tech_a", client)

	stats = broker.Stats()
	if stats["tech_clients"] != 0 {
		t.Errorf("Expected 0 tech clients, got %d", stats["tech_clients"])
	}

	// Channel is closed after unsubscribe
	if _, ok := <-client; ok {
		t.Error("Expected closed channel after unsubscribe")
	}
}

func TestSegmentedBroker_PublishToAll(t *testing.T) {
	broker := NewSegmentedBroker()

	admin := broker.Subscribe(ChannelAdmin, "")
	tech := broker.Subscribe(ChannelTech, "tech_a")
	customer := broker.Subscribe(ChannelCustomer, "bk_1")

	go broker.PublishToAll(Event{Type: "system.maintenance"})

	for name, client := range map[string]chan Event{"admin": admin, "tech": tech, "customer": customer} {
		select {
		case e := <-client:
			if e.Type != "system.maintenance" {
				t.Errorf("%s: expected system.maintenance, got %s", name, e.Type)
			}
		case <-time.After(time.Second):
			t.Errorf("%s timeout", name)
		}
	}
}
