// Package engine implements the route-propagation and attack-injection
// algorithms: flooding a victim's announcement across the graph,
// forging and flooding an attacker's hijack, and measuring how much of
// the graph ended up routing through the attacker.
package engine

import (
	"fmt"

	"github.com/meyerstim/bgpsecsim/asgraph"
	"github.com/meyerstim/bgpsecsim/bgpsecerr"
)

// announcement is one pending (route, recipient) pair waiting to be
// run through the recipient's accept/prefer/forward triad.
type announcement struct {
	route *asgraph.Route
	to    asgraph.ASID
}

// drain runs the FIFO propagation loop described in spec §4.D against
// an already-seeded queue: pop a route, let its recipient decide
// whether to accept and install it, and if installed, enqueue it
// further to whichever neighbors the recipient's policy says to
// forward to. It terminates because every installation strictly
// improves the recipient's preference order and loop suppression
// bounds path length.
func drain(g *asgraph.ASGraph, queue []announcement) {
	for len(queue) > 0 {
		ann := queue[0]
		queue = queue[1:]

		holder := g.Get(ann.to)
		if holder == nil {
			continue
		}

		if !holder.Policy.Accept(g, holder.ID, ann.route) {
			continue
		}

		origin := ann.route.Origin()
		current := holder.BestPath(origin)
		if current != nil && !holder.Policy.Prefer(g, holder.ID, current, ann.route) {
			continue
		}

		holder.InstallRoute(origin, ann.route)

		for _, neighbor := range holder.Neighbors() {
			rel := holder.RelationTo(neighbor)
			if holder.Policy.ForwardTo(g, holder.ID, ann.route, rel) {
				queue = append(queue, announcement{
					route: ann.route.Forward(g, neighbor),
					to:    neighbor,
				})
			}
		}
	}
}

// PropagateFrom floods victim's self-announcement to every neighbor
// and lets it spread according to each AS's policy. It must be called
// on a graph whose tables have just been cleared; it does not clear
// them itself, since a hijack flood that follows reuses the same
// tables.
func PropagateFrom(g *asgraph.ASGraph, victim asgraph.ASID) error {
	victimAS := g.Get(victim)
	if victimAS == nil {
		return fmt.Errorf("%w: victim AS %d", bgpsecerr.ErrUnknownAS, victim)
	}

	queue := make([]announcement, 0, len(victimAS.Neighbors()))
	for _, neighbor := range victimAS.Neighbors() {
		queue = append(queue, announcement{
			route: victimAS.Originate(neighbor),
			to:    neighbor,
		})
	}
	drain(g, queue)
	return nil
}

// HijackNHops finds any AS whose best path to victim has length
// exactly n, forges a route that extends it by one attacker-controlled
// hop, and floods that forged route from the attacker outward. The
// attacker's own forwarding step skips the normal accept check — an
// attacker happily forwards anything it fabricates — matching the
// original simulator's forward_route behaviour at the point of attack.
//
// Picking the lowest-numbered AS-ID among equally-qualifying n-hop
// bases keeps the result deterministic when more than one exists.
func HijackNHops(g *asgraph.ASGraph, victim, attacker asgraph.ASID, n int) error {
	victimAS := g.Get(victim)
	if victimAS == nil {
		return fmt.Errorf("%w: victim AS %d", bgpsecerr.ErrUnknownAS, victim)
	}
	attackerAS := g.Get(attacker)
	if attackerAS == nil {
		return fmt.Errorf("%w: attacker AS %d", bgpsecerr.ErrUnknownAS, attacker)
	}

	ids := g.AllSorted()

	var base *asgraph.Route
	for _, id := range ids {
		route := g.Get(id).BestPath(victim)
		if route != nil && route.Length() == n {
			base = route
			break
		}
	}
	if base == nil {
		return fmt.Errorf("%w: no %d-hop route to victim AS %d", bgpsecerr.ErrNoRoute, n, victim)
	}

	forged := asgraph.ForgeHijack(base, attacker, n)

	queue := make([]announcement, 0, len(attackerAS.Neighbors()))
	for _, neighbor := range attackerAS.Neighbors() {
		queue = append(queue, announcement{
			route: forged.Forward(g, neighbor),
			to:    neighbor,
		})
	}
	drain(g, queue)
	return nil
}
