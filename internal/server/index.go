package server

import (
	"net/http"
)

// indexHTML is a minimal single-page viewer over the JSON API.
const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>ddmigrate diff viewer</title>
<style>
body { font-family: sans-serif; margin: 2em; }
h1 { font-size: 1.3em; }
.exact { color: #2a7a2a; }
.different { color: #b05a00; }
pre { background: #f4f4f4; padding: 0.5em; overflow-x: auto; }
li { margin: 0.2em 0; cursor: pointer; }
</style>
</head>
<body>
<h1>ddmigrate diff viewer</h1>
<ul id="pairs"></ul>
<div id="detail"></div>
<script>
async function loadPairs() {
  const res = await fetch('/api/pairs');
  const pairs = await res.json();
  const ul = document.getElementById('pairs');
  for (const p of pairs) {
    const li = document.createElement('li');
    li.textContent = p.name + (p.has_product ? '' : ' (no product)');
    li.onclick = () => loadCompare(p.name);
    ul.appendChild(li);
  }
}
async function loadCompare(name) {
  const res = await fetch('/api/compare/' + encodeURIComponent(name));
  const data = await res.json();
  const div = document.getElementById('detail');
  let html = '<h2>' + name + '</h2>';
  html += '<p>Common keys: ' + (data.common_keys || []).join(', ') + '</p>';
  for (const attr of data.attributes || []) {
    html += '<p class="' + attr.classification + '"><strong>' + attr.id +
      '</strong>: ' + attr.classification + '</p>';
    if (attr.changes) {
      html += '<pre>' + attr.changes.map(c =>
        c.path + ': ' + (c.old_value || '∅') + ' → ' + (c.new_value || '∅')
      ).join('\n') + '</pre>';
    }
  }
  div.innerHTML = html;
}
loadPairs();
</script>
</body>
</html>
`

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}
