//go:build !tinygo

package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
)

// Handler returns an HTTP handler for the /metrics endpoint.
func (c *Collector) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")

		json.NewEncoder(w).Encode(c.Snapshot())
	}
}

// PrometheusHandler returns metrics in Prometheus format.
func (c *Collector) PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		fmt.Fprintf(w, "# HELP bob_decay_count Total decay firings\n")
		fmt.Fprintf(w, "# TYPE bob_decay_count counter\n")
		fmt.Fprintf(w, "bob_decay_count %d\n\n", atomic.LoadInt64(&c.DecayCount))

		fmt.Fprintf(w, "# HELP bob_actions_total Confirmed care actions\n")
		fmt.Fprintf(w, "# TYPE bob_actions_total counter\n")
		fmt.Fprintf(w, "bob_actions_total{action=\"feed\"} %d\n", atomic.LoadInt64(&c.ActionsFeed))
		fmt.Fprintf(w, "bob_actions_total{action=\"wash\"} %d\n", atomic.LoadInt64(&c.ActionsWash))
		fmt.Fprintf(w, "bob_actions_total{action=\"sleep\"} %d\n", atomic.LoadInt64(&c.ActionsSleep))
		fmt.Fprintf(w, "bob_actions_total{action=\"play\"} %d\n\n", atomic.LoadInt64(&c.ActionsPlay))

		fmt.Fprintf(w, "# HELP bob_games_total Finished games by result\n")
		fmt.Fprintf(w, "# TYPE bob_games_total counter\n")
		fmt.Fprintf(w, "bob_games_total{result=\"won\"} %d\n", atomic.LoadInt64(&c.GamesWon))
		fmt.Fprintf(w, "bob_games_total{result=\"lost\"} %d\n", atomic.LoadInt64(&c.GamesLost))
		fmt.Fprintf(w, "bob_games_total{result=\"drawn\"} %d\n\n", atomic.LoadInt64(&c.GamesDrawn))

		fmt.Fprintf(w, "# HELP bob_input_events_total Debounced input events\n")
		fmt.Fprintf(w, "# TYPE bob_input_events_total counter\n")
		fmt.Fprintf(w, "bob_input_events_total %d\n\n", atomic.LoadInt64(&c.InputEvents))

		fmt.Fprintf(w, "# HELP bob_flush_errors_total Failed LED frame flushes\n")
		fmt.Fprintf(w, "# TYPE bob_flush_errors_total counter\n")
		fmt.Fprintf(w, "bob_flush_errors_total %d\n\n", atomic.LoadInt64(&c.FlushErrors))

		fmt.Fprintf(w, "# HELP bob_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE bob_ws_connections gauge\n")
		fmt.Fprintf(w, "bob_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP bob_ws_messages_total Total WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE bob_ws_messages_total counter\n")
		fmt.Fprintf(w, "bob_ws_messages_total{direction=\"in\"} %d\n", atomic.LoadInt64(&c.WSMessagesIn))
		fmt.Fprintf(w, "bob_ws_messages_total{direction=\"out\"} %d\n", atomic.LoadInt64(&c.WSMessagesOut))
	}
}
