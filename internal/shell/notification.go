package shell

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

type NotificationKind string

const (
	// NotificationUpdateAvailable means a new version is installed and waiting.
	NotificationUpdateAvailable NotificationKind = "update-available"
	// NotificationControllerChange means a new version took control.
	NotificationControllerChange NotificationKind = "controller-change"
	// NotificationOfflineReady is sent once, after the first activation.
	NotificationOfflineReady NotificationKind = "offline-ready"
	// NotificationReload asks the app to reload after an explicit skip waiting.
	NotificationReload NotificationKind = "reload"
)

type Notification struct {
	Kind      NotificationKind `json:"kind"`
	Version   string           `json:"version"`
	Timestamp time.Time        `json:"timestamp"`
}

const subscriberBufferSize = 16

type notifier struct {
	mutex       sync.Mutex
	subscribers map[int]chan Notification
	nextID      int
	closed      bool
}

func newNotifier() *notifier {
	return &notifier{
		subscribers: make(map[int]chan Notification),
	}
}

// subscribe returns the notifications channel and a func to unsubscribe.
func (n *notifier) subscribe() (<-chan Notification, func()) {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	ch := make(chan Notification, subscriberBufferSize)
	if n.closed {
		close(ch)
		return ch, func() {}
	}

	id := n.nextID
	n.nextID++
	n.subscribers[id] = ch

	return ch, func() {
		n.mutex.Lock()
		defer n.mutex.Unlock()
		if sub, ok := n.subscribers[id]; ok {
			delete(n.subscribers, id)
			close(sub)
		}
	}
}

// publish never blocks, slow subscribers miss notifications.
func (n *notifier) publish(kind NotificationKind, version string) {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	notification := Notification{
		Kind:      kind,
		Version:   version,
		Timestamp: time.Now(),
	}
	for id, ch := range n.subscribers {
		select {
		case ch <- notification:
		default:
			log.Warnf("shell subscriber %d is full, dropping [%s] notification", id, kind)
		}
	}
}

func (n *notifier) close() {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	n.closed = true
	for id, ch := range n.subscribers {
		delete(n.subscribers, id)
		close(ch)
	}
}
