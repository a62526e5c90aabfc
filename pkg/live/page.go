//go:build !wasm
// +build !wasm

package live

// indexHTML mirrors session patches into #graph. A root insert binds to the
// existing svg element instead of creating one. A frame that does not fit
// the mirror asks the server for a resync.
const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>graphview</title>
<style>
  html, body { margin: 0; padding: 0; }
  #container { overflow: auto; width: 100vw; height: 100vh; }
  #graph circle { fill: #d9e5f2; stroke: #385d8a; }
</style>
</head>
<body>
<div id="container"><svg id="graph" xmlns="http://www.w3.org/2000/svg"></svg></div>
<script>
(function () {
  var SVG_NS = "http://www.w3.org/2000/svg";
  var OP_SET_ATTRIBUTE = 0x02;
  var OP_INSERT_NODE = 0x04;
  var FRAME_PATCHES = 0x00;

  var container = document.getElementById("container");
  var root = document.getElementById("graph");
  var nodes = new Map();
  var decoder = new TextDecoder();
  var resyncing = false;

  function Reader(buf) {
    this.view = new Uint8Array(buf);
    this.pos = 0;
  }
  Reader.prototype.byte = function () {
    if (this.pos >= this.view.length) throw new Error("unexpected end of frame");
    return this.view[this.pos++];
  };
  Reader.prototype.uvarint = function () {
    var x = 0, s = 1, b;
    do {
      b = this.byte();
      x += (b & 0x7f) * s;
      s *= 128;
    } while (b & 0x80);
    return x;
  };
  Reader.prototype.string = function () {
    var n = this.uvarint();
    if (this.pos + n > this.view.length) throw new Error("string overruns frame");
    var s = decoder.decode(this.view.subarray(this.pos, this.pos + n));
    this.pos += n;
    return s;
  };

  function apply(r) {
    var op = r.byte();
    var id = r.uvarint();
    if (op === OP_INSERT_NODE) {
      var parent = r.uvarint();
      var tag = r.string();
      if (parent === 0) {
        nodes.set(id, root);
        return;
      }
      var p = nodes.get(parent);
      if (!p) throw new Error("unknown parent " + parent);
      var el = document.createElementNS(SVG_NS, tag);
      p.appendChild(el);
      nodes.set(id, el);
    } else if (op === OP_SET_ATTRIBUTE) {
      var key = r.string();
      var value = r.string();
      var target = nodes.get(id);
      if (!target) throw new Error("unknown node " + id);
      // the page owns the root id
      if (!(target === root && key === "id")) target.setAttribute(key, value);
    } else {
      throw new Error("unknown patch operation " + op);
    }
  }

  function viewport() {
    return JSON.stringify({
      type: "viewport",
      clientWidth: container.clientWidth,
      clientHeight: container.clientHeight,
      innerWidth: window.innerWidth,
      innerHeight: window.innerHeight
    });
  }

  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/live/");
  ws.binaryType = "arraybuffer";

  ws.onopen = function () { ws.send(viewport()); };
  ws.onmessage = function (ev) {
    if (typeof ev.data === "string") {
      var msg = JSON.parse(ev.data);
      if (msg.type === "rendered") console.debug("rendered", msg.seq, msg.radius);
      if (msg.type === "resync") {
        while (root.firstChild) root.removeChild(root.firstChild);
        nodes.clear();
        resyncing = false;
      }
      return;
    }
    try {
      var r = new Reader(ev.data);
      if (r.byte() !== FRAME_PATCHES) return;
      var count = r.uvarint();
      for (var i = 0; i < count; i++) apply(r);
    } catch (err) {
      console.warn("graphview:", err.message);
      if (!resyncing) {
        resyncing = true;
        ws.send(JSON.stringify({ type: "resync" }));
      }
    }
  };
  ws.onclose = function () { console.warn("graphview: connection closed"); };

  var pending = 0;
  window.addEventListener("resize", function () {
    clearTimeout(pending);
    pending = setTimeout(function () {
      if (ws.readyState === WebSocket.OPEN) ws.send(viewport());
    }, 100);
  });
})();
</script>
</body>
</html>
`
