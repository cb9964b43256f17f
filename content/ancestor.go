package content

import "golang.org/x/net/html"

// Ancestors counts, for every node on the parent chain of each of nodes
// (the nodes themselves included), how many of nodes it is an
// ancestor-or-self of. It also returns the nearest common ancestor: the
// deepest node whose count equals len(nodes). The second return value is nil
// when nodes is empty or the nodes do not share a tree.
func Ancestors(nodes ...*html.Node) (map[*html.Node]int, *html.Node) {
	if len(nodes) == 0 {
		return nil, nil
	}

	ancestors := make(map[*html.Node]int)
	for _, node := range nodes {
		if node == nil {
			return nil, nil
		}
		for p := node; p != nil; p = p.Parent {
			ancestors[p]++
		}
	}

	// Every common ancestor lies on the parent chain of the first node, so
	// the deepest one is the first hit walking up from it.
	var nearest *html.Node
	for p := nodes[0]; p != nil; p = p.Parent {
		if ancestors[p] == len(nodes) {
			nearest = p
			break
		}
	}
	if nearest == nil {
		return nil, nil
	}

	return ancestors, nearest
}

// NearestCommonAncestor returns the deepest node that is an ancestor-or-self
// of every one of nodes, or nil if there is none.
func NearestCommonAncestor(nodes ...*html.Node) *html.Node {
	_, nearest := Ancestors(nodes...)
	return nearest
}
