// Command binlayout-dump decodes a file against one of the codec's
// registered example layouts and prints it as a human-readable tree.
package main

import (
	"fmt"
	"os"

	"github.com/creachadair/command"
	"github.com/creachadair/flax"
	"github.com/kr/pretty"
	"github.com/nassora/binlayout"
	_ "github.com/nassora/binlayout/scenarios"
)

var globalArgs struct {
	Start   int  `flag:"start,Byte offset of the region to decode"`
	Length  int  `flag:"length,'Length of the region to decode (0 means to end of file)'"`
	Verbose bool `flag:"v,Print the decoded Go value with field names instead of the describe tree"`
}

func main() {
	root := &command.C{
		Name:     "binlayout-dump",
		Usage:    "command args...",
		SetFlags: command.Flags(flax.MustBind, &globalArgs),
		Commands: []*command.C{
			{
				Name:  "decode",
				Usage: "decode <layout> <file>",
				Help:  "Decode file against the named registered layout and print it.",
				Run:   command.Adapt(runDecode),
			},
			{
				Name:  "list",
				Usage: "list",
				Help:  "List the names of registered layouts.",
				Run:   command.Adapt(runList),
			},
			command.HelpCommand(nil),
		},
	}
	env := root.NewEnv(nil)
	command.RunOrFail(env, os.Args[1:])
}

func runDecode(env *command.Env, layoutName, path string) error {
	t, ok := binlayout.LookupLayout(layoutName)
	if !ok {
		return fmt.Errorf("no layout registered as %q; try 'list'", layoutName)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	length := globalArgs.Length
	if length == 0 {
		length = len(data) - globalArgs.Start
	}
	value, ok := binlayout.FromBytesAt(t, data, globalArgs.Start, length)
	if globalArgs.Verbose {
		fmt.Printf("%# v\n", pretty.Formatter(value))
	} else {
		fmt.Print(binlayout.Describe(value))
	}
	if !ok {
		fmt.Fprintln(os.Stderr, "warning: decode ran past the end of the input region")
	}
	return nil
}

func runList(env *command.Env) error {
	for _, name := range []string{"mixed-endian", "terminated-body", "generic-parent", "repeated"} {
		if _, ok := binlayout.LookupLayout(name); ok {
			fmt.Println(name)
		}
	}
	return nil
}
