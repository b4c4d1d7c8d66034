package main

import (
	"fmt"
	"os"
	"time"

	"github.com/eiannone/keyboard"
	"github.com/montanaflynn/stats"
	"github.com/sasha-s/go-deadlock"
	"github.com/spf13/cobra"
	"neurostring/consensus/fingerprint"
	"neurostring/consensus/network"
	"neurostring/consensus/node"
	"neurostring/memory/resonance"
	"neurostring/neurostring"
)

type report struct {
	Nodes       int
	Synapses    int
	Sent        int
	Processed   int
	Below       int
	Stored      int
	MeanReached float64
	Latency     map[string]time.Duration
	Throughput  float64
}

func main() {
	var nodes, txs int
	var seed int64
	var quiet bool
	rootCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run transactions through a fresh network and report latency and throughput",
		RunE: func(cmd *cobra.Command, args []string) error {
			deadlock.Opts.DisableLockOrderDetection = true
			neurostring.SetLogLevel(2)
			if !quiet {
				go quitter()
			}
			r, err := simulate(nodes, txs, seed)
			if err != nil {
				return err
			}
			printReport(r)
			return nil
		},
	}
	rootCmd.Flags().IntVar(&nodes, "nodes", 10, "number of nodes")
	rootCmd.Flags().IntVar(&txs, "tx", 100, "number of transactions")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "random seed, 0 seeds from the clock")
	rootCmd.Flags().BoolVar(&quiet, "quiet", false, "do not listen for q to quit")
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func quitter() {
	for {
		r, _, err := keyboard.GetSingleKey()
		if err != nil {
			return
		}
		if string(r) == "q" {
			os.Exit(1)
		}
	}
}

func simulate(nodes, txs int, seed int64) (report, error) {
	rnd := neurostring.NewRandom(seed)
	net := network.New(rnd)
	memory := resonance.New()
	for i := 0; i < nodes; i++ {
		net.AddNode(node.New(fmt.Sprintf("node_%04d", i), neurostring.NewRandom(int64(rnd.Intn(1<<30))+1)))
	}
	net.ActivateEntanglement()
	r := report{Nodes: net.Len(), Synapses: net.TotalSynapses(), Sent: txs}
	var latencies, reached []float64
	start := time.Now()
	for i := 0; i < txs; i++ {
		p := fingerprint.Text(fmt.Sprintf("simulated transaction %d", i))
		t := time.Now()
		res := net.ProcessTransaction(p)
		latencies = append(latencies, float64(time.Since(t)))
		switch res.Status {
		case network.Processed:
			r.Processed++
			reached = append(reached, float64(res.Reached))
			memory.Store(p)
		case network.BelowThreshold:
			r.Below++
		}
	}
	elapsed := time.Since(start)
	r.Stored = memory.Len()
	if elapsed > 0 {
		r.Throughput = float64(txs) / elapsed.Seconds()
	}
	r.MeanReached, _ = stats.Mean(reached)
	r.Latency = make(map[string]time.Duration)
	if len(latencies) == 0 {
		return r, nil
	}
	for _, p := range []float64{50, 95, 99} {
		v, err := stats.Percentile(latencies, p)
		if err != nil {
			return r, fmt.Errorf("could not compute p%.0f: %w", p, err)
		}
		r.Latency[fmt.Sprintf("p%.0f", p)] = time.Duration(v)
	}
	max, err := stats.Max(latencies)
	if err != nil {
		return r, err
	}
	r.Latency["max"] = time.Duration(max)
	return r, nil
}

func printReport(r report) {
	fmt.Printf("nodes: %d, synapses: %d\n", r.Nodes, r.Synapses)
	fmt.Printf("transactions: %d sent, %d processed, %d below threshold, %d patterns stored\n", r.Sent, r.Processed, r.Below, r.Stored)
	fmt.Printf("mean nodes reached: %.2f\n", r.MeanReached)
	for _, k := range []string{"p50", "p95", "p99", "max"} {
		fmt.Printf("latency %s: %s\n", k, r.Latency[k])
	}
	fmt.Printf("throughput: %.0f tx/s\n", r.Throughput)
}
