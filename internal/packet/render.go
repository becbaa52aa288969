package packet

import (
	"fmt"
	"strings"
)

// Render formats a tree for humans, one packet per line, children indented
// two spaces below their operator:
//
//	v1 less_than framing=length children=2
//	  v6 literal 10
//	  v2 literal 20
func Render(p Packet) string {
	var b strings.Builder
	Walk(p, func(node Packet, depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		switch pl := node.Payload.(type) {
		case Literal:
			fmt.Fprintf(&b, "v%d literal %d\n", node.Version, pl.Value)
		case Operator:
			fmt.Fprintf(&b, "v%d %s framing=%s children=%d\n",
				node.Version, pl.Kind, pl.Framing, len(pl.Children))
		default:
			fmt.Fprintf(&b, "v%d <%T>\n", node.Version, node.Payload)
		}
	})
	return b.String()
}

// Walk visits p and its descendants depth-first, parents before children.
// The root is at depth 0.
func Walk(p Packet, fn func(node Packet, depth int)) {
	walk(p, 0, fn)
}

func walk(p Packet, depth int, fn func(Packet, int)) {
	fn(p, depth)
	for _, child := range p.Children() {
		walk(child, depth+1, fn)
	}
}

// TreeStats summarizes the shape of a tree.
type TreeStats struct {
	Packets   int `json:"packets"`
	Literals  int `json:"literals"`
	Operators int `json:"operators"`
	Depth     int `json:"depth"` // Number of levels; a lone literal has depth 1
}

// Stats counts the packets in a tree.
func Stats(p Packet) TreeStats {
	var s TreeStats
	Walk(p, func(node Packet, depth int) {
		s.Packets++
		if node.IsLiteral() {
			s.Literals++
		} else {
			s.Operators++
		}
		if depth+1 > s.Depth {
			s.Depth = depth + 1
		}
	})
	return s
}
