package server

import "html/template"

type page struct {
	SVG  template.HTML
	Half float64
}

var indexTemplate = template.Must(template.New("index.html").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Schotter</title>
<style>
body { background: #fffafa; margin: 0; display: flex; flex-direction: column; align-items: center; font-family: monospace; }
#status { color: #777; padding: 8px; }
</style>
</head>
<body>
<div id="drawing">{{.SVG}}</div>
<div id="status">connecting</div>
<script>
const half = {{.Half}};
const squares = document.querySelectorAll("#drawing g[transform]");
const status = document.getElementById("status");
const proto = location.protocol === "https:" ? "wss://" : "ws://";
const ws = new WebSocket(proto + location.host + "/ws" + location.search);
ws.onmessage = (ev) => {
  const f = JSON.parse(ev.data);
  f.squares.forEach((s, i) => {
    if (squares[i]) {
      squares[i].setAttribute("transform",
        "translate(" + s[0] + "," + s[1] + ") rotate(" + s[2] + ") translate(" + -half + "," + -half + ")");
    }
  });
  status.textContent = "seed " + f.seed + "  tick " + f.tick + "  moving " + f.moving;
};
ws.onclose = () => { status.textContent = "disconnected"; };
const keys = {
  ArrowUp: "displacement_up", ArrowDown: "displacement_down",
  ArrowRight: "rotation_up", ArrowLeft: "rotation_down",
  "+": "motion_up", "=": "motion_up", "-": "motion_down",
  n: "reseed", c: "reset",
};
document.addEventListener("keydown", (ev) => {
  const command = keys[ev.key];
  if (command && ws.readyState === WebSocket.OPEN) {
    ws.send(JSON.stringify({command: command, value: 0}));
    ev.preventDefault();
  }
});
</script>
</body>
</html>
`))
