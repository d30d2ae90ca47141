package webpanel

import (
	"html/template"
	"net/http"

	confetti "github.com/iw2rmb/flourish-confetti"
)

// canvasConfettiURL is the browser build the page loads the renderer from.
const canvasConfettiURL = "https://cdn.jsdelivr.net/npm/canvas-confetti@1.9.3/dist/confetti.browser.min.js"

type pageData struct {
	Title     string
	Generator string
	ScriptURL string
	SocketURL string
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<meta name="generator" content="{{.Generator}}">
<title>{{.Title}}</title>
<script src="{{.ScriptURL}}"></script>
<style>
  body { margin: 0; height: 100vh; display: flex; flex-direction: column; align-items: center; justify-content: center; font-family: sans-serif; background: #1e1e1e; color: #ccc; }
  #status { font-size: 12px; opacity: 0.7; }
  button { margin-top: 12px; padding: 6px 16px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div id="status">connecting…</div>
<button id="pop">Test pop</button>
<script>
(function () {
  const status = document.getElementById("status");
  const proto = location.protocol === "https:" ? "wss://" : "ws://";
  const socket = new WebSocket(proto + location.host + {{.SocketURL}});
  let settings = {};

  socket.onopen = function () { status.textContent = "connected"; };
  socket.onclose = function () { status.textContent = "disconnected"; };
  socket.onmessage = function (event) {
    const msg = JSON.parse(event.data);
    switch (msg.command) {
      case "updateSettings":
        settings = Object.assign({}, settings, msg.settings);
        status.textContent = "settings updated";
        break;
      case "triggerConfetti":
        if (msg.emission) {
          confetti(msg.emission);
        }
        break;
    }
  };

  document.getElementById("pop").addEventListener("click", function () {
    socket.send(JSON.stringify({ command: "testPop" }));
  });
})();
</script>
</body>
</html>
`))

func (p *Panel) servePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := pageTmpl.Execute(w, pageData{
		Title:     p.Kind().Title(),
		Generator: confetti.UserAgent(),
		ScriptURL: canvasConfettiURL,
		SocketURL: socketPath,
	})
	if err != nil {
		p.logger.Printf("webpanel: render page: %v", err)
	}
}
