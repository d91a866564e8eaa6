package realtime

import (
	"encoding/json"
	"net/http"
	"time"

	"marketchat/pkg/logger"
)

const pollInterval = 2 * time.Second

// poller is the degraded transport used when the persistent stream cannot be
// established: it drains queued frames from the backend on a fixed interval
// and dispatches them through the same handler registry.
type poller struct {
	manager *Manager
	url     string
	client  *http.Client
	done    <-chan struct{}
}

func newPoller(m *Manager, userID string, done <-chan struct{}) *poller {
	return &poller{
		manager: m,
		url:     httpPollURL(m.socketURL) + "?userId=" + userID,
		client:  &http.Client{Timeout: 30 * time.Second},
		done:    done,
	}
}

func (p *poller) run() {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			p.drain()
		}
	}
}

func (p *poller) drain() {
	resp, err := p.client.Get(p.url)
	if err != nil {
		logger.Warn("realtime: poll failed: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("realtime: poll returned status %d", resp.StatusCode)
		return
	}

	var frames []Frame
	if err := json.NewDecoder(resp.Body).Decode(&frames); err != nil {
		logger.Warn("realtime: poll body undecodable: %v", err)
		return
	}
	for _, frame := range frames {
		p.manager.dispatch(frame.Event, frame.Payload)
	}
}
