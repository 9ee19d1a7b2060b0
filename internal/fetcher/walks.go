package fetcher

import "github.com/gagliardetto/solana-go"

// RouteID canonicalises an (inputMint, outputMint) pair for the walks
// map, independent of trade direction.
type RouteID struct {
	A, B solana.PublicKey
}

func canonicalRouteID(inputMint, outputMint solana.PublicKey) RouteID {
	if inputMint.String() <= outputMint.String() {
		return RouteID{A: inputMint, B: outputMint}
	}
	return RouteID{A: outputMint, B: inputMint}
}

// BuildWalks enumerates simple pool-address paths of up to maxHops
// hops between every pair of mints reachable through poolMints, via a
// breadth-first search from the pair's canonical A mint (so each path
// is listed in A-to-B order). It is a test-fixture
// helper standing in for the external pool-graph collaborator (spec
// §9): production route discovery is out of scope for this module.
func BuildWalks(poolMints map[solana.PublicKey]PoolMintPair, maxHops int) map[RouteID][][]solana.PublicKey {
	adj := make(map[solana.PublicKey][]edge)
	for pool, mints := range poolMints {
		adj[mints.MintA] = append(adj[mints.MintA], edge{pool: pool, to: mints.MintB})
		adj[mints.MintB] = append(adj[mints.MintB], edge{pool: pool, to: mints.MintA})
	}

	mints := make(map[solana.PublicKey]bool)
	for _, m := range poolMints {
		mints[m.MintA] = true
		mints[m.MintB] = true
	}

	walks := make(map[RouteID][][]solana.PublicKey)
	seen := make(map[RouteID]bool)
	for a := range mints {
		for b := range mints {
			if a.Equals(b) {
				continue
			}
			id := canonicalRouteID(a, b)
			if seen[id] {
				continue
			}
			seen[id] = true
			paths := findPoolPaths(adj, id.A, id.B, maxHops)
			if len(paths) > 0 {
				walks[id] = paths
			}
		}
	}
	return walks
}

// PoolMintPair is the minimal per-pool metadata BuildWalks needs.
type PoolMintPair struct {
	MintA, MintB solana.PublicKey
}

type edge struct {
	pool solana.PublicKey
	to   solana.PublicKey
}

type bfsNode struct {
	mint   solana.PublicKey
	via    solana.PublicKey // pool address used to reach this node
	parent int
}

// findPoolPaths runs a plain breadth-first search from start, since
// the walks map is a test fixture rather than a production hot path;
// it returns simple paths of at most maxHops pool hops to goal. A mint
// (goal included) already reached at the same or a shallower depth is
// not expanded again, so not every simple path is listed: with a
// direct pool to goal, a two-hop path ending at goal is skipped.
func findPoolPaths(adj map[solana.PublicKey][]edge, start, goal solana.PublicKey, maxHops int) [][]solana.PublicKey {
	if maxHops < 1 {
		return nil
	}
	nodes := []bfsNode{{mint: start, parent: -1}}
	visitedAtDepth := map[solana.PublicKey]int{start: 0}
	var results [][]solana.PublicKey

	frontier := []int{0}
	for depth := 0; depth < maxHops && len(frontier) > 0; depth++ {
		var next []int
		for _, idx := range frontier {
			node := nodes[idx]
			for _, e := range adj[node.mint] {
				if pathContainsPool(nodes, idx, e.pool) {
					continue
				}
				if d, ok := visitedAtDepth[e.to]; ok && d <= depth {
					continue
				}
				childIdx := len(nodes)
				nodes = append(nodes, bfsNode{mint: e.to, via: e.pool, parent: idx})
				visitedAtDepth[e.to] = depth + 1
				if e.to.Equals(goal) {
					results = append(results, reconstructPoolPath(nodes, childIdx))
					continue
				}
				next = append(next, childIdx)
			}
		}
		frontier = next
	}
	return results
}

func pathContainsPool(nodes []bfsNode, idx int, pool solana.PublicKey) bool {
	for idx >= 0 {
		n := nodes[idx]
		if n.parent >= 0 && n.via.Equals(pool) {
			return true
		}
		idx = n.parent
	}
	return false
}

func reconstructPoolPath(nodes []bfsNode, idx int) []solana.PublicKey {
	var rev []solana.PublicKey
	for idx >= 0 && nodes[idx].parent >= 0 {
		rev = append(rev, nodes[idx].via)
		idx = nodes[idx].parent
	}
	out := make([]solana.PublicKey, len(rev))
	for i, addr := range rev {
		out[len(rev)-1-i] = addr
	}
	return out
}
