package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fzft/go-hashmap/deps/linenoise"
	"github.com/fzft/go-hashmap/hashfn"
	"github.com/fzft/go-hashmap/hashmap"
	"github.com/fzft/go-hashmap/resp"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"go.uber.org/zap"
)

const prompt = "hmcli> "

var errInvalidArgs = errors.New("invalid argument(s)")

// Cli is a shell over a single in-memory table.
type Cli struct {
	config *Config
	table  *hashmap.Table
	output OutputMode
	out    io.Writer
	logger *zap.Logger
}

func NewCli(config *Config, out io.Writer, logger *zap.Logger) (*Cli, error) {
	hash, ok := hashfn.ByName(config.Hash)
	if !ok {
		return nil, fmt.Errorf("unknown hash %q", config.Hash)
	}
	table, err := hashmap.New(hash, config.tableOptions(logger)...)
	if err != nil {
		return nil, err
	}
	return &Cli{
		config: config,
		table:  table,
		output: config.output(isTerminal(out)),
		out:    out,
		logger: logger,
	}, nil
}

func (cli *Cli) Close() {
	cli.table.Free()
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// Run reads commands from in until it is exhausted or the user quits. An
// interactive terminal gets line editing and history.
func (cli *Cli) Run(in io.Reader) error {
	switch {
	case cli.config.Pipe:
		return cli.pipe(in)
	case isTerminal(in):
		return cli.repl()
	default:
		return cli.readLines(in)
	}
}

// Exec runs one command and returns its reply.
func (cli *Cli) Exec(args [][]byte) resp.Node {
	name := string(args[0])
	c := lookupCommand(name)
	if c == nil {
		return resp.Error{Message: fmt.Sprintf("ERR unknown command '%s'", name)}
	}
	if (c.arity > 0 && len(args) != c.arity) || len(args) < -c.arity {
		return resp.Error{Message: fmt.Sprintf("ERR wrong number of arguments for '%s' command", c.name)}
	}
	cli.logger.Debug("exec", zap.String("command", c.name), zap.Int("args", len(args)-1))
	return c.proc(cli, args)
}

func (cli *Cli) write(c *cliCommand, node resp.Node) {
	mode := cli.output
	if c != nil && c.raw && mode != OutputRESP {
		mode = OutputRaw
	}
	if _, err := cli.out.Write(formatReply(node, mode)); err != nil {
		cli.logger.Debug("failed to write reply", zap.Error(err))
	}
}

// processLine runs one input line, honouring a numeric repeat prefix as in
// "3 GET key". It reports whether the shell should stop.
func (cli *Cli) processLine(line string, ln *linenoise.LineNoise) (quit bool) {
	argv, err := splitArgs(line)
	if err != nil {
		fmt.Fprintln(cli.out, "Invalid argument(s)")
		return false
	}
	if len(argv) == 0 {
		return false
	}

	// check if we have a repeat command option and need to skip the first arg
	repeat := 1
	if n, err := strconv.Atoi(string(argv[0])); err == nil && len(argv) > 1 {
		if n <= 0 {
			fmt.Fprintln(cli.out, "Invalid hmcli repeat command option value.")
			return false
		}
		repeat = n
		argv = argv[1:]
	}

	name := string(argv[0])
	switch {
	case strings.EqualFold(name, "quit") || strings.EqualFold(name, "exit"):
		return true
	case len(argv) == 1 && strings.EqualFold(name, "clear") && ln != nil:
		if err := ln.ClearScreen(); err != nil {
			cli.logger.Debug("failed to clear screen", zap.Error(err))
		}
		return false
	}

	for i := 0; i < repeat; i++ {
		cli.write(lookupCommand(name), cli.Exec(argv))
	}
	return false
}

func (cli *Cli) repl() error {
	ln := linenoise.New()
	defer ln.Close()
	ln.SetCommands(commandNames())

	var historyFile string
	if cli.config.History {
		historyFile = getDotfilePath(HmcliHisFileEnv, HmcliHisFileDefault)
		if historyFile != "" {
			if err := ln.HistoryLoad(historyFile); err != nil && !errors.Is(err, os.ErrNotExist) {
				cli.logger.Warn("failed to load history", zap.String("file", historyFile), zap.Error(err))
			}
		}
	}

	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if cli.config.History {
			ln.AppendHistory(line)
			if historyFile != "" {
				if err := ln.HistorySave(historyFile); err != nil {
					cli.logger.Debug("failed to save history", zap.Error(err))
				}
			}
		}
		if cli.processLine(line, ln) {
			return nil
		}
	}
}

func (cli *Cli) readLines(in io.Reader) error {
	// lines are unbounded, values can be of any size
	r := bufio.NewReader(in)
	for {
		line, err := r.ReadString('\n')
		if len(line) > 0 && cli.processLine(strings.TrimRight(line, "\r\n"), nil) {
			return nil
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// pipe executes RESP encoded commands, as produced by resp.EncodeCommand,
// so keys and values may hold any byte.
func (cli *Cli) pipe(in io.Reader) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	for len(data) > 0 {
		node, rest, err := resp.Parse(data)
		if err != nil {
			return fmt.Errorf("pipe: %w", err)
		}
		args, err := resp.Args(node)
		if err != nil {
			return fmt.Errorf("pipe: %w", err)
		}
		data = rest
		if len(args) == 0 {
			continue
		}
		cli.write(lookupCommand(string(args[0])), cli.Exec(args))
	}
	return nil
}

// splitArgs splits a line into arguments. Double quoted arguments accept
// the escapes \n \r \t \b \a \\ \" and \xHH, single quoted ones only \'.
func splitArgs(line string) ([][]byte, error) {
	var args [][]byte
	i := 0
	for {
		for i < len(line) && isSpace(line[i]) {
			i++
		}
		if i == len(line) {
			return args, nil
		}

		var cur []byte
		inDQ, inSQ, done := false, false, false
		for !done {
			if i == len(line) {
				if inDQ || inSQ {
					return nil, errInvalidArgs
				}
				break
			}
			p := line[i]
			switch {
			case inDQ:
				switch {
				case p == '\\' && i+3 < len(line) && line[i+1] == 'x' && isHex(line[i+2]) && isHex(line[i+3]):
					b, _ := strconv.ParseUint(line[i+2:i+4], 16, 8)
					cur = append(cur, byte(b))
					i += 3
				case p == '\\' && i+1 < len(line):
					i++
					cur = append(cur, unescape(line[i]))
				case p == '"':
					// closing quote must be followed by a space or nothing
					if i+1 < len(line) && !isSpace(line[i+1]) {
						return nil, errInvalidArgs
					}
					done = true
				default:
					cur = append(cur, p)
				}
			case inSQ:
				switch {
				case p == '\\' && i+1 < len(line) && line[i+1] == '\'':
					i++
					cur = append(cur, '\'')
				case p == '\'':
					if i+1 < len(line) && !isSpace(line[i+1]) {
						return nil, errInvalidArgs
					}
					done = true
				default:
					cur = append(cur, p)
				}
			default:
				switch {
				case isSpace(p):
					done = true
				case p == '"':
					inDQ = true
				case p == '\'':
					inSQ = true
				default:
					cur = append(cur, p)
				}
			}
			if i < len(line) {
				i++
			}
		}
		if cur == nil {
			cur = []byte{}
		}
		args = append(args, cur)
	}
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case 'b':
		return '\b'
	case 'a':
		return '\a'
	default:
		return c
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
