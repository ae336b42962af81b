package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fzft/go-hashmap/hashmap"
	"github.com/fzft/go-hashmap/resp"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type commandProc func(cli *Cli, args [][]byte) resp.Node

// cliCommand describes one shell command. arity counts the command name; a
// negative arity is a minimum.
type cliCommand struct {
	name    string
	params  string
	summary string
	arity   int
	raw     bool // reply is always printed raw
	proc    commandProc
}

var commandTable []*cliCommand

func init() {
	commandTable = []*cliCommand{
		{name: "set", params: "key value", summary: "Insert a key. Fails if the key exists.", arity: 3, proc: setCommand},
		{name: "mset", params: "key value [key value ...]", summary: "Insert several keys, reporting the ones rejected.", arity: -3, proc: msetCommand},
		{name: "get", params: "key", summary: "Get the value of a key.", arity: 2, proc: getCommand},
		{name: "exists", params: "key", summary: "Determine if a key exists.", arity: 2, proc: existsCommand},
		{name: "dump", params: "", summary: "List every key and value in table order.", arity: 1, proc: dumpCommand},
		{name: "keys", params: "", summary: "Walk the table with an iterator and list the keys.", arity: 1, proc: keysCommand},
		{name: "flush", params: "", summary: "Remove all keys, keeping the capacity.", arity: 1, proc: flushCommand},
		{name: "info", params: "", summary: "Show the table layout and memory.", arity: 1, raw: true, proc: infoCommand},
		{name: "help", params: "", summary: "Show this help.", arity: -1, raw: true, proc: helpCommand},
	}
}

func lookupCommand(name string) *cliCommand {
	for _, c := range commandTable {
		if strings.EqualFold(c.name, name) {
			return c
		}
	}
	return nil
}

// commandNames lists the command names for completion, including the ones
// handled by the shell itself.
func commandNames() []string {
	names := make([]string, 0, len(commandTable)+3)
	for _, c := range commandTable {
		names = append(names, strings.ToUpper(c.name))
	}
	return append(names, "CLEAR", "QUIT", "EXIT")
}

func errReply(err error) resp.Node {
	return resp.Error{Message: "ERR " + err.Error()}
}

var okReply = resp.SimpleString{Value: "OK"}

func setCommand(cli *Cli, args [][]byte) resp.Node {
	if err := cli.table.Insert(args[1], args[2]); err != nil {
		return errReply(err)
	}
	return okReply
}

func msetCommand(cli *Cli, args [][]byte) resp.Node {
	if len(args)%2 == 0 {
		return resp.Error{Message: "ERR wrong number of arguments for 'mset' command"}
	}
	pairs := make([]hashmap.Pair, 0, len(args)/2)
	for i := 1; i < len(args); i += 2 {
		pairs = append(pairs, hashmap.Pair{Key: args[i], Value: args[i+1]})
	}
	err := cli.table.InsertAll(pairs)
	if err == nil {
		return okReply
	}
	errs := multierr.Errors(err)
	cli.logger.Debug("mset rejected pairs", zap.Int("rejected", len(errs)), zap.Error(err))
	return resp.Error{Message: fmt.Sprintf("ERR %d of %d pairs rejected: %v", len(errs), len(pairs), errs[0])}
}

func getCommand(cli *Cli, args [][]byte) resp.Node {
	value, ok := cli.table.Get(args[1])
	if !ok {
		return resp.Null{}
	}
	return resp.BlobString{Value: value}
}

func existsCommand(cli *Cli, args [][]byte) resp.Node {
	if cli.table.Exists(args[1]) {
		return resp.Integer{Value: 1}
	}
	return resp.Integer{Value: 0}
}

func dumpCommand(cli *Cli, args [][]byte) resp.Node {
	pairs := cli.table.Dump()
	elems := make([]resp.Node, 0, len(pairs)*2)
	for _, p := range pairs {
		elems = append(elems, resp.BlobString{Value: p.Key}, resp.BlobString{Value: p.Value})
	}
	return resp.Array{Elements: elems}
}

func keysCommand(cli *Cli, args [][]byte) resp.Node {
	elems := make([]resp.Node, 0, cli.table.Len())
	it, ok := cli.table.Iterator()
	for ; ok; ok = it.Next() {
		elems = append(elems, resp.BlobString{Value: it.Key()})
	}
	if it != nil {
		if err := it.Err(); err != nil {
			return errReply(err)
		}
	}
	return resp.Array{Elements: elems}
}

func flushCommand(cli *Cli, args [][]byte) resp.Node {
	cli.table.Clear()
	return okReply
}

func infoCommand(cli *Cli, args [][]byte) resp.Node {
	s := cli.table.Stats()
	cli.logger.Debug("info", zap.Object("stats", s))

	var b strings.Builder
	b.WriteString("# Table\r\n")
	fmt.Fprintf(&b, "hash:%s\r\n", cli.config.Hash)
	fmt.Fprintf(&b, "entries:%d\r\n", s.Entries)
	fmt.Fprintf(&b, "overflow:%d\r\n", s.Overflow)
	fmt.Fprintf(&b, "capacity:%d\r\n", s.Capacity)
	fmt.Fprintf(&b, "heads:%d\r\n", s.Heads)
	fmt.Fprintf(&b, "load_factor:%.2f\r\n", s.LoadFactor)
	fmt.Fprintf(&b, "longest_chain:%d\r\n", s.LongestChain)
	b.WriteString("\r\n# Memory\r\n")
	fmt.Fprintf(&b, "payload_bytes:%d\r\n", s.PayloadBytes)
	fmt.Fprintf(&b, "used_memory:%d\r\n", s.UsedMemory)
	fmt.Fprintf(&b, "max_memory:%d\r\n", cli.config.MaxMemory)
	return resp.BlobString{Value: []byte(b.String())}
}

func helpCommand(cli *Cli, args [][]byte) resp.Node {
	var b strings.Builder
	if len(args) > 1 {
		c := lookupCommand(string(args[1]))
		if c == nil {
			return errReply(errors.New("no help for '" + string(args[1]) + "'"))
		}
		writeHelpEntry(&b, c)
		return resp.BlobString{Value: []byte(b.String())}
	}
	fmt.Fprintf(&b, "hmcli %s\r\n", version(gitSHA1, gitDirty))
	b.WriteString("Type: \"help <command>\" for help on <command>\r\n\r\n")
	for _, c := range commandTable {
		writeHelpEntry(&b, c)
	}
	b.WriteString("  CLEAR\r\n  summary: Clear the screen.\r\n\r\n")
	b.WriteString("  QUIT\r\n  summary: Leave the shell.\r\n")
	return resp.BlobString{Value: []byte(b.String())}
}

func writeHelpEntry(b *strings.Builder, c *cliCommand) {
	fmt.Fprintf(b, "  %s %s\r\n", strings.ToUpper(c.name), c.params)
	fmt.Fprintf(b, "  summary: %s\r\n\r\n", c.summary)
}
