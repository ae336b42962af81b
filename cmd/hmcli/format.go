package main

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/fzft/go-hashmap/resp"
)

// formatReply renders a reply for mode. Standard and raw replies end with a
// newline, RESP replies are written as is.
func formatReply(node resp.Node, mode OutputMode) []byte {
	var buf bytes.Buffer
	switch mode {
	case OutputRESP:
		resp.Write(&buf, node)
		return buf.Bytes()
	case OutputRaw:
		formatReplyRaw(&buf, node)
	default:
		formatReplyTTY(&buf, node)
	}
	buf.WriteByte('\n')
	return buf.Bytes()
}

func formatReplyTTY(buf *bytes.Buffer, node resp.Node) {
	switch n := node.(type) {
	case resp.SimpleString:
		buf.WriteString(n.Value)
	case resp.Error:
		fmt.Fprintf(buf, "(error) %s", n.Message)
	case resp.Integer:
		fmt.Fprintf(buf, "(integer) %d", n.Value)
	case resp.BlobString:
		buf.WriteString(strconv.Quote(string(n.Value)))
	case resp.Null:
		buf.WriteString("(nil)")
	case resp.Array:
		if len(n.Elements) == 0 {
			buf.WriteString("(empty array)")
			return
		}
		width := len(strconv.Itoa(len(n.Elements)))
		for i, elem := range n.Elements {
			if i > 0 {
				buf.WriteByte('\n')
			}
			fmt.Fprintf(buf, "%*d) ", width, i+1)
			formatReplyTTY(buf, elem)
		}
	}
}

func formatReplyRaw(buf *bytes.Buffer, node resp.Node) {
	switch n := node.(type) {
	case resp.SimpleString:
		buf.WriteString(n.Value)
	case resp.Error:
		buf.WriteString(n.Message)
	case resp.Integer:
		buf.WriteString(strconv.Itoa(n.Value))
	case resp.BlobString:
		buf.Write(n.Value)
	case resp.Null:
	case resp.Array:
		for i, elem := range n.Elements {
			if i > 0 {
				buf.WriteByte('\n')
			}
			formatReplyRaw(buf, elem)
		}
	}
}
