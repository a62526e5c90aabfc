//go:build js && wasm
// +build js,wasm

package main

import (
	"context"
	"log/slog"
	"syscall/js"
	"time"

	"github.com/recera/graphview/pkg/debug"
	"github.com/recera/graphview/pkg/renderer/dom"
	"github.com/recera/graphview/pkg/svg"
	"github.com/recera/graphview/pkg/transition"
	"github.com/recera/graphview/pkg/viewport"
)

const transitionDuration = 750 * time.Millisecond

var console = js.Global().Get("console")

func main() {
	debug.EnableLogging(slog.LevelInfo)

	node := js.Global().Get("document").Call("getElementById", "graph")
	if node.IsNull() {
		console.Call("error", "graphview: no svg#graph element")
		return
	}

	doc := svg.NewDocument()
	applier := dom.NewDOMApplier()
	canvas := doc.NewRoot("svg")
	applier.Bind(canvas, node)
	doc.Subscribe(func(p svg.Patch) {
		if err := applier.Apply(p); err != nil {
			console.Call("error", err.Error())
		}
	})

	sched := transition.NewScheduler()
	view := viewport.NewFactory(transitionDuration, &viewport.Options{
		Scheduler: sched,
		Oracle:    dom.BrowserOracle{},
	}).New(canvas)
	go sched.Run(context.Background(), transition.DefaultFrameInterval)

	js.Global().Set("graphview", js.ValueOf(map[string]any{
		"render": js.FuncOf(func(this js.Value, args []js.Value) any {
			view.Render(radiusArg(args))
			return nil
		}),
		"renderWithTransition": js.FuncOf(func(this js.Value, args []js.Value) any {
			return promise(view.RenderWithTransition(radiusArg(args)))
		}),
	}))
	console.Call("log", "graphview ready")

	// Keep the WASM runtime alive
	select {}
}

func radiusArg(args []js.Value) float64 {
	if len(args) == 0 || args[0].Type() != js.TypeNumber {
		return 0
	}
	return args[0].Float()
}

// promise wraps c in a JS Promise. A superseded completion leaves the
// promise pending.
func promise(c *viewport.Completion) js.Value {
	executor := js.FuncOf(func(this js.Value, args []js.Value) any {
		resolve := args[0]
		if c.Resolved() {
			resolve.Invoke()
			return nil
		}
		go func() {
			select {
			case <-c.Done():
				resolve.Invoke()
			case <-c.Superseded():
			}
		}()
		return nil
	})
	defer executor.Release()
	return js.Global().Get("Promise").New(executor)
}
