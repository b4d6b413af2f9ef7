// Command bgpsecsim builds an AS graph from a CAIDA as-rel file and
// runs route-propagation and hijack simulations over it. Subcommand
// dispatch follows the teacher's own flat switch-on-os.Args[1] style
// (see main.go's top-level switch) rather than a cobra/urfave-cli
// tree — the CLI surface here is five flat verbs, not a nested command
// graph that would justify the extra dependency.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/big"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/meyerstim/bgpsecsim/asgraph"
	"github.com/meyerstim/bgpsecsim/caida"
	"github.com/meyerstim/bgpsecsim/engine"
	"github.com/meyerstim/bgpsecsim/metrics"
	"github.com/meyerstim/bgpsecsim/policy"
	"github.com/meyerstim/bgpsecsim/trialpool"
)

func usage() {
	fmt.Println("Usage of bgpsecsim:")
	fmt.Println()
	fmt.Println("  check-graph -asrel <file>")
	fmt.Println("  find-route  -asrel <file> -victim <asid> -attacker <asid> -hops <n>")
	fmt.Println("  figure2a    -asrel <file> -attack <file>")
	fmt.Println("  figure-data <name> -asrel <file> -attack <file>")
	fmt.Println("  metrics-serve <addr>")
}

func main() {
	log.SetFlags(0)
	if len(os.Args) == 1 {
		usage()
		return
	}

	switch command := os.Args[1]; command {
	case "check-graph":
		checkGraph(os.Args[2:])
	case "find-route":
		findRoute(os.Args[2:])
	case "figure2a":
		figure2a(os.Args[2:])
	case "figure-data":
		figureData(os.Args[2:])
	case "metrics-serve":
		metricsServe(os.Args[2:])
	case "-h", "--help":
		usage()
	default:
		log.Println("Unknown command:", command)
		usage()
	}
}

func loadGraph(asrelPath string) *asgraph.ASGraph {
	f, err := os.Open(asrelPath)
	if err != nil {
		log.Fatalf("opening as-rel file: %v", err)
	}
	defer f.Close()

	edges, err := caida.ParseRelFile(f)
	if err != nil {
		log.Fatalf("parsing as-rel file: %v", err)
	}

	g, err := asgraph.New(edges, policy.NewDefault())
	if err != nil {
		log.Fatalf("building AS graph: %v", err)
	}
	return g
}

func checkGraph(args []string) {
	cmd := flag.NewFlagSet("check-graph", flag.ExitOnError)
	asrelPath := cmd.String("asrel", "", "CAIDA as-rel file")
	cmd.Parse(args)

	if *asrelPath == "" {
		log.Fatal("check-graph: -asrel is required")
	}

	g := loadGraph(*asrelPath)
	fmt.Printf("ases: %d\n", g.Len())
	fmt.Printf("connected: %v\n", g.IsConnected())
	cycle := g.AnyCustomerProviderCycle()
	fmt.Printf("customer-provider cycle: %v\n", cycle)
	for i, id := range g.TopISPs(5) {
		fmt.Printf("top-isp[%d]: AS%d (%d customers)\n", i, id, g.CustomerCount(id))
	}
	if cycle {
		os.Exit(1)
	}
}

func findRoute(args []string) {
	cmd := flag.NewFlagSet("find-route", flag.ExitOnError)
	asrelPath := cmd.String("asrel", "", "CAIDA as-rel file")
	victim := cmd.Uint("victim", 0, "Victim AS-ID")
	attacker := cmd.Uint("attacker", 0, "Attacker AS-ID")
	hops := cmd.Int("hops", 1, "Hop count of the base route to hijack")
	cmd.Parse(args)

	if *asrelPath == "" {
		log.Fatal("find-route: -asrel is required")
	}

	g := loadGraph(*asrelPath)
	v, a := asgraph.ASID(*victim), asgraph.ASID(*attacker)

	if err := engine.PropagateFrom(g, v); err != nil {
		log.Fatalf("propagation: %v", err)
	}
	if err := engine.HijackNHops(g, v, a, *hops); err != nil {
		log.Fatalf("hijack: %v", err)
	}

	rate, err := engine.SuccessRate(g, a, v)
	if err != nil {
		log.Fatalf("success rate: %v", err)
	}
	fmt.Printf("attacker success rate: %s\n", rate.FloatString(6))
}

func figure2a(args []string) {
	cmd := flag.NewFlagSet("figure2a", flag.ExitOnError)
	asrelPath := cmd.String("asrel", "", "CAIDA as-rel file")
	attackPath := cmd.String("attack", "", "attack-scenario file")
	cmd.Parse(args)

	if *asrelPath == "" || *attackPath == "" {
		log.Fatal("figure2a: -asrel and -attack are required")
	}

	kinds := []policy.Kind{policy.Default, policy.RPKI, policy.PathEnd, policy.BGPsecHigh, policy.ASPA}
	for _, kind := range kinds {
		rate := runDeploymentTable(*asrelPath, *attackPath, func(g *asgraph.ASGraph) error {
			return engine.DeployFull(g, kind)
		})
		fmt.Printf("%-12s full-deployment success-rate: %s\n", kind, rate.FloatString(4))
	}
}

func figureData(args []string) {
	if len(args) == 0 {
		log.Fatal("figure-data: a recipe name is required (topisps, tier, probabilistic)")
	}
	name := args[0]

	cmd := flag.NewFlagSet("figure-data "+name, flag.ExitOnError)
	asrelPath := cmd.String("asrel", "", "CAIDA as-rel file")
	attackPath := cmd.String("attack", "", "attack-scenario file")
	kindFlag := cmd.String("policy", string(policy.RPKI), "policy kind to deploy")
	n := cmd.Int("n", 10, "ISP count for topisps/probabilistic")
	fraction := cmd.Float64("fraction", 0.5, "deployment fraction for tier")
	p := cmd.Float64("p", 0.5, "deployment probability for probabilistic")
	tier := cmd.Int("tier", int(asgraph.TierTwo), "tier for the tier recipe")
	cmd.Parse(args[1:])

	if *asrelPath == "" || *attackPath == "" {
		log.Fatal("figure-data: -asrel and -attack are required")
	}
	kind := policy.Kind(*kindFlag)

	var deploy func(*asgraph.ASGraph) error
	switch name {
	case "topisps":
		deploy = func(g *asgraph.ASGraph) error { return engine.DeployOverTopISPs(g, *n, kind) }
	case "tier":
		rng := deterministicRand()
		deploy = func(g *asgraph.ASGraph) error { return engine.DeployOverTier(g, asgraph.Tier(*tier), *fraction, kind, rng) }
	case "probabilistic":
		rng := deterministicRand()
		deploy = func(g *asgraph.ASGraph) error { return engine.DeployProbabilistic(g, *n, *p, kind, rng) }
	default:
		log.Fatalf("figure-data: unknown recipe %q", name)
	}

	rate := runDeploymentTable(*asrelPath, *attackPath, deploy)
	fmt.Printf("%-12s %-12s success-rate: %s\n", name, kind, rate.FloatString(4))
}

// runDeploymentTable loads a fresh graph, applies deploy, runs every
// (attacker, victim) pair named in the attack file, and returns the
// mean success rate across all trials that carry a rate (an
// unknown-AS trial counts as zero; a no-route trial is left out).
func runDeploymentTable(asrelPath, attackPath string, deploy func(*asgraph.ASGraph) error) *big.Rat {
	g := loadGraph(asrelPath)
	if err := deploy(g); err != nil {
		log.Fatalf("applying deployment recipe: %v", err)
	}

	f, err := os.Open(attackPath)
	if err != nil {
		log.Fatalf("opening attack file: %v", err)
	}
	defer f.Close()

	scenario, err := caida.ParseAttackFile(f)
	if err != nil {
		log.Fatalf("parsing attack file: %v", err)
	}

	trials := make([]trialpool.Trial, 0, len(scenario.Victims))
	for _, v := range scenario.Victims {
		trials = append(trials, trialpool.Trial{ID: uuid.New(), Victim: v, Attacker: scenario.Attacker, HopCount: 1})
	}

	workers := parallelism()
	p := trialpool.New(g, workers, logrus.StandardLogger())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, warnings := p.Run(ctx, trials)
	if warnings != nil {
		logrus.WithError(warnings).Warn("some trials in the batch did not complete")
	}

	sum := new(big.Rat)
	n := 0
	for _, r := range results {
		// A trial that failed with a recoverable UnknownAS error still
		// carries a zero SuccessRate and counts toward the mean: only a
		// trial with no rate at all (ErrNoRoute, a fatal miss) is
		// dropped from the denominator.
		if r.SuccessRate == nil {
			continue
		}
		sum.Add(sum, r.SuccessRate)
		n++
	}
	if n == 0 {
		return new(big.Rat)
	}
	return sum.Quo(sum, big.NewRat(int64(n), 1))
}

func metricsServe(args []string) {
	if len(args) == 0 {
		log.Fatal("metrics-serve: an address is required, e.g. :9090")
	}
	addr := args[0]

	http.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))
	logrus.WithField("addr", addr).Info("serving metrics")
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatalf("metrics-serve: %v", err)
	}
}

// parallelism reads PARALLELISM from the environment, defaulting to
// runtime.NumCPU() when unset or non-numeric.
func parallelism() int {
	v := os.Getenv("PARALLELISM")
	if v == "" {
		return runtime.NumCPU()
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return runtime.NumCPU()
	}
	return n
}

// deterministicRand seeds the deployment recipes' random selection the
// same way on every invocation, so that two runs of the same
// figure-data command over the same input files produce the same
// table, matching the determinism invariant the rest of the engine
// upholds.
func deterministicRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}
