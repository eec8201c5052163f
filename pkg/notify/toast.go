// Package notify bridges service-level notices onto the realtime broker so
// they surface as toast messages on the technician client.
package notify

import (
	"time"

	"github.com/MicahMunyard/easyworkshophub-sub002/internal/core"
	"github.com/MicahMunyard/easyworkshophub-sub002/pkg/broker"
)

// ToastNotifier publishes toast events on a technician's SSE segment.
type ToastNotifier struct {
	broker *broker.SegmentedBroker
}

func NewToastNotifier(b *broker.SegmentedBroker) *ToastNotifier {
	return &ToastNotifier{broker: b}
}

// Notify is fire-and-forget: if the technician has no open stream the event
// is dropped, matching the transient nature of a toast.
func (n *ToastNotifier) Notify(techID, message string, severity core.NoticeSeverity) {
	if n.broker == nil {
		return
	}
	n.broker.Publish(broker.ChannelTech, techID, broker.Event{
		Type:      "toast",
		Timestamp: time.Now().Unix(),
		Data: map[string]interface{}{
			"message":  message,
			"severity": string(severity),
		},
	})
}
