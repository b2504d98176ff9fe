package network

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/events"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/platform/logger"
	"github.com/MRamiBalles/BobTamagotchi/firmware/internal/platform/metrics"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // the panel page may be served from a dev server
	},
}

// ServeWs handles websocket requests from the peer.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.logger.Error("failed to upgrade websocket connection", "error", err)
		return
	}

	client := NewClient(hub, conn)
	if !client.Register() {
		hub.logger.Warn("hub stopped, refusing websocket client")
		conn.Close()
		return
	}

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.WritePump()
	go client.ReadPump()
}

// NewMux wires the simulator routes:
//
//	/              panel page
//	/ws            panel mirror and input
//	/events        journal as JSON, ?since=<seq>
//	/metrics       counters as JSON
//	/metrics/prom  counters in Prometheus text format
func NewMux(hub *Hub, eventLog *events.EventLog, c *metrics.Collector, log *logger.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(panelPage))
	})

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, w, r)
	})

	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		list := eventLog.Replay()
		if raw := r.URL.Query().Get("since"); raw != "" {
			seq, err := strconv.Atoi(raw)
			if err != nil {
				http.Error(w, "Invalid since", http.StatusBadRequest)
				return
			}
			list = eventLog.Since(seq)
		}
		if list == nil {
			list = []events.DeviceEvent{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(list); err != nil {
			log.Warn("failed to encode events", "error", err)
		}
	})

	mux.HandleFunc("/metrics", c.Handler())
	mux.HandleFunc("/metrics/prom", c.PrometheusHandler())

	return mux
}

const panelPage = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Bob</title>
<style>
body { background: #111; color: #ddd; font-family: monospace; }
#grid { display: grid; grid-template-columns: repeat(5, 28px); gap: 4px; margin: 16px 0; }
#grid div { width: 28px; height: 28px; border-radius: 50%; background: #000; }
#oled { background: #000; color: #6cf; padding: 8px; width: 17ch; min-height: 6em; white-space: pre; }
button { width: 4em; height: 2em; margin: 2px; }
</style>
</head>
<body>
<div id="grid"></div>
<div id="oled"></div>
<p id="tone"></p>
<div>
  <button data-d="LEFT">&larr;</button>
  <button data-d="UP">&uarr;</button>
  <button data-d="DOWN">&darr;</button>
  <button data-d="RIGHT">&rarr;</button>
  <button data-d="PRESS">A</button>
</div>
<script>
const grid = document.getElementById("grid");
for (let i = 0; i < 25; i++) grid.appendChild(document.createElement("div"));
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
ws.onmessage = (m) => {
  const msg = JSON.parse(m.data);
  if (msg.type !== "PANEL") return;
  // LED 0 is the bottom-left of the physical grid.
  msg.panel.leds.forEach((c, i) => {
    const row = 4 - Math.floor(i / 5), col = i % 5;
    grid.children[row * 5 + col].style.background = "rgb(" + c.map(v => Math.min(255, v * 2)).join(",") + ")";
  });
  document.getElementById("oled").textContent = (msg.panel.lines || []).join("\n");
  if (msg.panel.tone) document.getElementById("tone").textContent = msg.panel.tone.hz + " Hz";
};
document.querySelectorAll("button").forEach(b => b.onclick = () =>
  ws.send(JSON.stringify({type: "TAP", direction: b.dataset.d})));
const keys = {ArrowLeft: "LEFT", ArrowRight: "RIGHT", ArrowUp: "UP", ArrowDown: "DOWN", " ": "PRESS", Enter: "PRESS"};
document.onkeydown = (e) => { if (keys[e.key]) ws.send(JSON.stringify({type: "TAP", direction: keys[e.key]})); };
</script>
</body>
</html>
`
