// Package resp is the reply model of the hmcli shell and a RESP2 codec for
// it, so replies can be printed for humans or piped to RESP tooling.
package resp

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

const CRLF string = "\r\n"

// Types equivalent to RESP version 2
const (
	TypeArray   byte = '*'
	TypeBlob    byte = '$'
	TypeSimple  byte = '+'
	TypeError   byte = '-'
	TypeInteger byte = ':'
)

var (
	ErrIncomplete = errors.New("resp: incomplete message")
	ErrProtocol   = errors.New("resp: protocol error")
)

type Node interface {
	respType() byte
}

// BlobString is a binary-safe bulk string.
type BlobString struct {
	Value []byte
}

type SimpleString struct {
	Value string
}

type Error struct {
	Message string
}

type Integer struct {
	Value int
}

// Null is the nil bulk string ($-1).
type Null struct {
}

type Array struct {
	Elements []Node
}

func (BlobString) respType() byte   { return TypeBlob }
func (SimpleString) respType() byte { return TypeSimple }
func (Error) respType() byte        { return TypeError }
func (Integer) respType() byte      { return TypeInteger }
func (Null) respType() byte         { return TypeBlob }
func (Array) respType() byte        { return TypeArray }

// Write serializes node to w.
func Write(w io.Writer, node Node) error {
	bw := bufio.NewWriter(w)
	writeNode(bw, node)
	return bw.Flush()
}

func writeNode(w *bufio.Writer, node Node) {
	switch n := node.(type) {
	case SimpleString:
		fmt.Fprintf(w, "+%s%s", n.Value, CRLF)
	case Error:
		fmt.Fprintf(w, "-%s%s", n.Message, CRLF)
	case Integer:
		fmt.Fprintf(w, ":%d%s", n.Value, CRLF)
	case BlobString:
		fmt.Fprintf(w, "$%d%s", len(n.Value), CRLF)
		w.Write(n.Value)
		w.WriteString(CRLF)
	case Null:
		fmt.Fprintf(w, "$-1%s", CRLF)
	case Array:
		fmt.Fprintf(w, "*%d%s", len(n.Elements), CRLF)
		for _, elem := range n.Elements {
			writeNode(w, elem)
		}
	}
}

// EncodeCommand returns args as a RESP array of bulk strings, the form
// clients use to send commands.
func EncodeCommand(args ...[]byte) []byte {
	elems := make([]Node, len(args))
	for i, arg := range args {
		elems[i] = BlobString{Value: arg}
	}
	var buf bytes.Buffer
	Write(&buf, Array{Elements: elems})
	return buf.Bytes()
}

// Parse decodes one node from data and returns the unconsumed rest.
// ErrIncomplete means data ends in the middle of a node.
func Parse(data []byte) (Node, []byte, error) {
	if len(data) == 0 {
		return nil, data, ErrIncomplete
	}
	line, rest, ok := bytes.Cut(data, []byte(CRLF))
	if !ok {
		return nil, data, ErrIncomplete
	}
	if len(line) == 0 {
		return nil, data, fmt.Errorf("%w: empty line", ErrProtocol)
	}
	header := string(line[1:])

	switch line[0] {
	case TypeSimple:
		return SimpleString{Value: header}, rest, nil

	case TypeError:
		return Error{Message: header}, rest, nil

	case TypeInteger:
		num, err := strconv.Atoi(header)
		if err != nil {
			return nil, data, fmt.Errorf("%w: bad integer %q", ErrProtocol, header)
		}
		return Integer{Value: num}, rest, nil

	case TypeBlob:
		length, err := strconv.Atoi(header)
		if err != nil || length < -1 {
			return nil, data, fmt.Errorf("%w: bad bulk length %q", ErrProtocol, header)
		}
		if length == -1 {
			return Null{}, rest, nil
		}
		if length > len(rest)-2 {
			return nil, data, ErrIncomplete
		}
		if string(rest[length:length+2]) != CRLF {
			return nil, data, fmt.Errorf("%w: bulk string not terminated", ErrProtocol)
		}
		value := make([]byte, length)
		copy(value, rest[:length])
		return BlobString{Value: value}, rest[length+2:], nil

	case TypeArray:
		count, err := strconv.Atoi(header)
		if err != nil || count < 0 {
			return nil, data, fmt.Errorf("%w: bad array length %q", ErrProtocol, header)
		}
		// every element takes at least 4 bytes, so the header alone cannot
		// size the allocation
		array := Array{Elements: make([]Node, 0, minInt(count, len(rest)/4))}
		for i := 0; i < count; i++ {
			var elem Node
			elem, rest, err = Parse(rest)
			if err != nil {
				return nil, data, err
			}
			array.Elements = append(array.Elements, elem)
		}
		return array, rest, nil

	default:
		return nil, data, fmt.Errorf("%w: unknown type byte %q", ErrProtocol, line[0])
	}
}

// Args converts a parsed command (an array of bulk strings) to its
// arguments.
func Args(node Node) ([][]byte, error) {
	array, ok := node.(Array)
	if !ok {
		return nil, fmt.Errorf("%w: command must be an array", ErrProtocol)
	}
	args := make([][]byte, len(array.Elements))
	for i, elem := range array.Elements {
		blob, ok := elem.(BlobString)
		if !ok {
			return nil, fmt.Errorf("%w: command argument %d is not a bulk string", ErrProtocol, i)
		}
		args[i] = blob.Value
	}
	return args, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
