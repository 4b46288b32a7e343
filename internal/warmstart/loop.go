package warmstart

import (
	"time"

	"github.com/shadowmesh/dhtnode/internal/dht"
	"github.com/shadowmesh/dhtnode/internal/logging"
)

// Run periodically snapshots table's hosts to store every interval, until
// the process exits. Intended to run in its own goroutine.
func Run(store *Store, table *dht.RoutingTable, interval time.Duration, log *logging.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		hosts := table.AllHosts()
		errs := store.SaveAll(hosts)
		failed := 0
		for _, err := range errs {
			if err != nil {
				failed++
			}
		}
		if failed > 0 {
			log.Warnf("warm-start snapshot: %d of %d hosts failed to save", failed, len(hosts))
		} else {
			log.Debugf("warm-start snapshot: saved %d hosts", len(hosts))
		}
	}
}
