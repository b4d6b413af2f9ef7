// Package asgraph implements the AS-level topology: an arena of
// Autonomous Systems keyed by ID, the customer/peer/provider
// relationships between them, and the Route value type routes are made
// of. It has no notion of a routing policy or of propagation — those
// live in the policy and engine packages, which take an *ASGraph as an
// argument rather than being methods on it.
package asgraph

// ASID identifies an Autonomous System. CAIDA as-rel files and BGP
// itself both use non-negative integers for this.
type ASID uint32

// Relation is the business relationship of a neighbor AS, always
// expressed from the point of view of the AS holding the map entry.
type Relation int

const (
	// Unrelated is the zero value, returned for any pair of ASes with no
	// direct edge between them. It sorts after every real relation in
	// local-preference comparisons.
	Unrelated Relation = iota
	Customer
	Peer
	Provider
)

func (r Relation) String() string {
	switch r {
	case Customer:
		return "customer"
	case Peer:
		return "peer"
	case Provider:
		return "provider"
	default:
		return "unrelated"
	}
}

// LocalPrefRank maps a first-hop relation to the Gao-Rexford local
// preference rank used as the first tiebreak key in the default
// preference rule. Lower is more preferred.
func (r Relation) LocalPrefRank() int {
	switch r {
	case Customer:
		return 1
	case Peer:
		return 2
	case Provider:
		return 3
	default:
		return 4
	}
}

// EdgeKind classifies one line of a relationship file: either a
// settlement-free peering, or a customer/provider edge naming which
// side is the provider.
type EdgeKind int

const (
	EdgePeer EdgeKind = iota
	AProviderOfB
	BProviderOfA
)

// Edge is one (as_id1, as_id2, customer_or_none) record as produced by
// whatever parses the relationship file. The core graph consumes a
// slice of these; it never reads a file itself.
type Edge struct {
	A, B     ASID
	Relation EdgeKind
}
