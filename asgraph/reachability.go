package asgraph

const (
	sideL byte = 'L'
	sideR byte = 'R'
)

// bnode is a node in the auxiliary bipartite digraph used to compute
// valley-free reachability: two nodes per AS, "left" and "right".
type bnode struct {
	side byte
	id   ASID
}

// reverseAdjacency builds, once, the transpose of the bipartite digraph
// described in spec §4.A:
//
//	L(a)   -> R(a)                       for every a
//	R(a)   -> R(n)   if n is a's CUSTOMER
//	L(a)   -> R(n)   if n is a's PEER
//	L(a)   -> L(n)   if n is a's PROVIDER
//
// Walking the transpose forward from R(target) visits exactly the
// nodes that have a forward path to R(target) in the original graph;
// the L(a) nodes among them are the ASes with a policy-compliant route
// to target.
func (g *ASGraph) reverseAdjacency() map[bnode][]bnode {
	rev := make(map[bnode][]bnode)
	add := func(from, to bnode) {
		rev[to] = append(rev[to], from)
	}

	for id := range g.ases {
		add(bnode{sideL, id}, bnode{sideR, id})
		for neighbor, rel := range g.relations[id] {
			switch rel {
			case Customer:
				add(bnode{sideR, id}, bnode{sideR, neighbor})
			case Peer:
				add(bnode{sideL, id}, bnode{sideR, neighbor})
			case Provider:
				add(bnode{sideL, id}, bnode{sideL, neighbor})
			}
		}
	}
	return rev
}

func reachabilityFrom(rev map[bnode][]bnode, target ASID) int {
	start := bnode{sideR, target}
	visited := map[bnode]bool{start: true}
	queue := []bnode{start}
	count := 0

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.side == sideL {
			count++
		}
		for _, u := range rev[cur] {
			if !visited[u] {
				visited[u] = true
				queue = append(queue, u)
			}
		}
	}
	return count
}

// Reachability returns the number of ASes, including target, from
// which a valley-free route to target exists under Gao-Rexford export
// rules.
func (g *ASGraph) Reachability(target ASID) int {
	return reachabilityFrom(g.reverseAdjacency(), target)
}

// ReachabilityAll computes Reachability for every AS in the graph,
// sharing a single reverse-adjacency build across all of them.
func (g *ASGraph) ReachabilityAll() map[ASID]int {
	rev := g.reverseAdjacency()
	out := make(map[ASID]int, len(g.ases))
	for id := range g.ases {
		out[id] = reachabilityFrom(rev, id)
	}
	return out
}
