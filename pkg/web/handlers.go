package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/teslashibe/go-posefuse/pkg/hub"
	"github.com/teslashibe/go-posefuse/pkg/stats"
)

// StatsResponse is the body of GET /api/stats.
type StatsResponse struct {
	RunID   string         `json:"run_id"`
	Clients int            `json:"clients"`
	Stats   stats.Snapshot `json:"stats"`
}

func (s *Server) statsResponse() StatsResponse {
	resp := StatsResponse{
		RunID:   s.runID,
		Clients: s.frames.ClientCount(),
	}
	if s.stats != nil {
		resp.Stats = s.stats.Snapshot()
	}
	return resp
}

func (s *Server) handleStats(c *fiber.Ctx) error {
	return c.JSON(s.statsResponse())
}

func (s *Server) handleFramesWS(conn *websocket.Conn) {
	hub.NewClient(s.frames, conn).Run()
}

func (s *Server) handleIndex(c *fiber.Ctx) error {
	c.Type("html")
	return c.SendString(indexHTML)
}

const indexHTML = `<!doctype html>
<html>
<head><title>posefuse</title>
<style>body{background:#111;color:#eee;font-family:monospace}img{max-width:100%}</style>
</head>
<body>
<img id="frame" alt="waiting for frames">
<pre id="stats"></pre>
<script>
const img = document.getElementById('frame');
const stats = document.getElementById('stats');
const ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws/frames');
ws.binaryType = 'blob';
ws.onmessage = (ev) => {
  if (typeof ev.data === 'string') {
    stats.textContent = JSON.stringify(JSON.parse(ev.data), null, 2);
    return;
  }
  const url = URL.createObjectURL(ev.data);
  img.onload = () => URL.revokeObjectURL(url);
  img.src = url;
};
</script>
</body>
</html>
`
