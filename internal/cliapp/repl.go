// Package cliapp implements the node's interactive foreground command line:
// a simple line-oriented REPL reading dotted commands from stdin, in the
// same plain-switch-over-input style the project's other CLI entrypoints
// use.
package cliapp

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/shadowmesh/dhtnode/internal/node"
)

// REPL drives put/get/diagnostic commands from in against the given node,
// writing results to out, until `.quit` or end-of-input.
type REPL struct {
	n   *node.Node
	in  *bufio.Scanner
	out io.Writer
}

// New constructs a REPL reading from in and writing to out.
func New(n *node.Node, in io.Reader, out io.Writer) *REPL {
	return &REPL{n: n, in: bufio.NewScanner(in), out: out}
}

// Run executes the REPL loop until `.quit` is entered or input ends.
// Returns true if the exit was a clean `.quit`.
func (r *REPL) Run() bool {
	r.printf("dhtnode ready. Type .help for commands.\n")
	for {
		r.printf("> ")
		if !r.in.Scan() {
			return false
		}
		line := strings.TrimSpace(r.in.Text())
		if line == "" {
			continue
		}

		switch line {
		case ".help":
			r.help()
		case ".quit":
			return true
		case ".put":
			r.doPut()
		case ".lookup":
			r.doLookup()
		case ".showroutes":
			r.printf("%s", r.n.RoutingTable().FormatRoutes())
		case ".showuid":
			r.printf("%s\n", r.n.LocalUID())
		case ".kvstore":
			r.printf("%s", r.n.Store().Format())
		default:
			r.printf("unknown command %q, type .help for a list\n", line)
		}
	}
}

func (r *REPL) help() {
	r.printf(".help        show this message\n")
	r.printf(".quit        exit the process\n")
	r.printf(".put         store a key/value pair (prompts for both)\n")
	r.printf(".lookup      look up a key (prompts for it)\n")
	r.printf(".showroutes  dump the routing table\n")
	r.printf(".showuid     print this node's identifier\n")
	r.printf(".kvstore     dump the local key-value store\n")
}

func (r *REPL) doPut() {
	r.printf("key: ")
	if !r.in.Scan() {
		return
	}
	key := strings.TrimSpace(r.in.Text())

	r.printf("value: ")
	if !r.in.Scan() {
		return
	}
	value := strings.TrimSpace(r.in.Text())

	if err := r.n.Put(key, value); err != nil {
		r.printf("error: %v\n", err)
		return
	}
	r.printf("stored.\n")
}

func (r *REPL) doLookup() {
	r.printf("key: ")
	if !r.in.Scan() {
		return
	}
	key := strings.TrimSpace(r.in.Text())

	value, ok := r.n.Get(key)
	if !ok {
		r.printf("No such key.\n")
		return
	}
	r.printf("Value: %s\n", value)
}

func (r *REPL) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format, args...)
}
