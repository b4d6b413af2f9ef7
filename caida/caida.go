// Package caida reads the two plain-text input formats this simulator
// consumes: CAIDA's as-rel serial-1 relationship files and the
// attack-scenario files naming one attacker and its victims. It is kept
// deliberately separate from asgraph and engine, which never read a
// file themselves — the core only ever consumes []asgraph.Edge and
// asgraph.ASID values, matching the teacher's own separation between
// caida_file_readers.go's bulk parsing and the rest of the simulator's
// in-memory data structures.
package caida

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/meyerstim/bgpsecsim/asgraph"
	"github.com/meyerstim/bgpsecsim/bgpsecerr"
)

// ParseRelFile reads a CAIDA as-rel serial-1 file: lines of
// "A|B|rel", rel one of "-1" (A is a provider of B) or "0" (peers).
// Lines beginning with "#" are comments and are skipped; a "#" later in
// a line is not treated as a comment. A malformed
// line is a fatal parse error, not a skipped one — the original
// simulator treats relationship data as ground truth, and a corrupt
// line here means the whole topology is suspect.
func ParseRelFile(r io.Reader) ([]asgraph.Edge, error) {
	scanner := bufio.NewScanner(r)
	var edges []asgraph.Edge

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "|")
		if len(fields) < 3 {
			return nil, fmt.Errorf("%w: %q", bgpsecerr.ErrInvalidRelFile, line)
		}

		a, err := parseASID(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", bgpsecerr.ErrInvalidRelFile, line, err)
		}
		b, err := parseASID(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", bgpsecerr.ErrInvalidRelFile, line, err)
		}

		var kind asgraph.EdgeKind
		switch fields[2] {
		case "-1":
			kind = asgraph.AProviderOfB
		case "0":
			kind = asgraph.EdgePeer
		default:
			return nil, fmt.Errorf("%w: unrecognised relation code %q in %q", bgpsecerr.ErrInvalidRelFile, fields[2], line)
		}

		edges = append(edges, asgraph.Edge{A: a, B: b, Relation: kind})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", bgpsecerr.ErrInvalidRelFile, err)
	}
	return edges, nil
}

// AttackScenario is one parsed attack-file: a single attacker and the
// victims to run it against.
type AttackScenario struct {
	Attacker asgraph.ASID
	Victims  []asgraph.ASID
}

// ParseAttackFile reads the attack-scenario grammar from spec §6: the
// first non-comment, non-blank line names the attacker AS-ID, every
// line after it names one victim AS-ID.
func ParseAttackFile(r io.Reader) (*AttackScenario, error) {
	scanner := bufio.NewScanner(r)
	scenario := &AttackScenario{}
	haveAttacker := false

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		id, err := parseASID(line)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", bgpsecerr.ErrInvalidRelFile, line, err)
		}

		if !haveAttacker {
			scenario.Attacker = id
			haveAttacker = true
			continue
		}
		scenario.Victims = append(scenario.Victims, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", bgpsecerr.ErrInvalidRelFile, err)
	}
	if !haveAttacker {
		return nil, fmt.Errorf("%w: attack file names no attacker", bgpsecerr.ErrInvalidRelFile)
	}
	return scenario, nil
}

func parseASID(s string) (asgraph.ASID, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, err
	}
	return asgraph.ASID(n), nil
}
