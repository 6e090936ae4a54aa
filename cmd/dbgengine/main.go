// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"

	"dbgengine/diag"
	"dbgengine/engine"
	"dbgengine/internal/graphscript"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: dbgengine <file.graph>")
		os.Exit(1)
	}

	path := os.Args[1]
	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("Failed to read file: %s", err)
		os.Exit(1)
	}

	prog, err := graphscript.Parse(path, string(source))
	if err != nil {
		reportParseError(string(source), err)
		os.Exit(1)
	}

	loaded, err := graphscript.Build(prog)
	if err != nil {
		color.Red("Failed to build graph: %s", err)
		os.Exit(1)
	}

	cfg, err := engine.NewConfig(nil, 0, true, true)
	if err != nil {
		color.Red("Invalid configuration: %s", err)
		os.Exit(1)
	}

	res, err := engine.Run(loaded.Graph, loaded.Registry, loaded.Inputs, cfg)
	if err != nil {
		fmt.Println(diag.Report(err))
		os.Exit(1)
	}

	for _, line := range res.Trace {
		fmt.Println(line)
	}
	for _, out := range res.Graph.Outputs {
		fmt.Printf("%s = %v\n", out.Name, res.RVals[out])
	}

	color.Green("✅ Successfully ran %s", path)
}

// reportParseError prints a friendly caret-style parse error message,
// mirroring kanso's own cmd/kanso-cli reporter.
func reportParseError(src string, err error) {
	pe, ok := err.(participle.Error)
	if !ok {
		color.Red("Unexpected error: %s", err)
		return
	}

	pos := pe.Position()
	lines := strings.Split(src, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		color.Red("Syntax error at unknown location: %s", err)
		return
	}

	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", pos.Column-1) + "^"

	color.Red("❌ Syntax error in %s at line %d, column %d:", pos.Filename, pos.Line, pos.Column)
	fmt.Println(line)
	color.HiRed(caret)
	fmt.Printf("→ %s\n", pe.Message())
}
