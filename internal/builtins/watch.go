// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package builtins

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jeranaias/framesh/internal/commands"
)

// =============================================================================
// WATCH
// =============================================================================

const watchKey = "watch"

// watched is one expression and the last value it rendered to.
type watched struct {
	Expr  string
	Value string
}

// watchList is the watch command's persistent state.
type watchList struct {
	state commands.State
}

func newWatchList(state commands.State) *watchList {
	return &watchList{state: state}
}

func (w *watchList) items() []watched {
	items, _ := w.state["items"].([]watched)
	return items
}

func (w *watchList) set(items []watched) {
	w.state["items"] = items
}

// check re-evaluates every watched expression against the current frame and
// reports those whose rendering changed.
func (w *watchList) check(host Host, d *commands.Dispatcher) {
	items := w.items()
	e := host.Evaluator()
	if len(items) == 0 || e == nil {
		return
	}
	frame := host.Stack().Top()
	for i := range items {
		v, err := e.Evaluate(frame, items[i].Expr)
		now := ""
		if err != nil {
			now = "#<error: " + err.Error() + ">"
		} else {
			now = inspect(host, v)
		}
		if now != items[i].Value {
			fmt.Fprintf(d.Output(), "watch: %s => %s\n", items[i].Expr, now)
			items[i].Value = now
		}
	}
}

func watchCommand(host Host) *commands.CommandSpec {
	return &commands.CommandSpec{
		Name:        watchKey,
		Usage:       "watch [expression | -d [N] | -l]",
		Description: "Watch expressions and report when their values change after each evaluation",
		Group:       GroupEvaluation,
		Handler: func(inv *commands.Invocation) (any, error) {
			w := newWatchList(inv.State)
			arg := strings.TrimSpace(inv.ArgString)

			switch {
			case arg == "" || arg == "-l":
				listWatches(inv, w.items())
				return nil, nil

			case arg == "-d":
				w.set(nil)
				inv.Println("Deleted all watch expressions")
				return nil, nil

			case strings.HasPrefix(arg, "-d "):
				n, err := strconv.Atoi(strings.TrimSpace(arg[3:]))
				items := w.items()
				if err != nil || n < 1 || n > len(items) {
					return nil, inv.Fail("no watch expression %q", strings.TrimSpace(arg[3:]))
				}
				removed := items[n-1]
				w.set(append(items[:n-1:n-1], items[n:]...))
				inv.Printf("Deleted watch: %s\n", removed.Expr)
				return nil, nil
			}

			v, err := inv.Evaluate(arg)
			if err != nil {
				return nil, commands.WrapError("watch", err)
			}
			value := inspect(host, v)
			w.set(append(w.items(), watched{Expr: arg, Value: value}))
			inv.Printf("Watching %s\n", arg)
			inv.Printf("watch: %s => %s\n", arg, value)
			return nil, nil
		},
	}
}

func listWatches(inv *commands.Invocation, items []watched) {
	if len(items) == 0 {
		inv.Println("No watched expressions")
		return
	}
	inv.Println("Listing all watched expressions:")
	width := len(strconv.Itoa(len(items)))
	for i, it := range items {
		inv.Printf("%*d: %s => %s\n", width, i+1, it.Expr, it.Value)
	}
}
