package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sasha-s/go-deadlock"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"neurostring/consensus/conductor"
	"neurostring/messaging/api"
	"neurostring/neurostring"
)

func main() {
	o := &overrides{}
	rootCmd := &cobra.Command{
		Use:     "neurostring",
		Short:   "Run a neurostring network with its HTTP API and console",
		Version: neurostring.Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := viper.New()
			if err := initConfig(conf, cmd, o); err != nil {
				return err
			}
			run(conf)
			return nil
		},
	}
	o.register(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(conf *viper.Viper) {
	deadlock.Opts.DisableLockOrderDetection = true
	deadlock.Opts.DeadlockTimeout = time.Millisecond * 30000

	if conf.GetBool("firstRun") {
		scanner := bufio.NewScanner(strings.NewReader(neurostring.Banner()))
		for scanner.Scan() {
			time.Sleep(time.Millisecond * 127)
			fmt.Println(scanner.Text())
		}
		fmt.Println()
	} else {
		fmt.Printf("\n%s\n", neurostring.Banner())
	}

	// the terminator channel blocks until shutdown, anything requiring a clean shutdown should
	// wait on this channel and clean up when it stops blocking.
	terminator := make(chan struct{})

	// anything requiring a clean shutdown adds to this waitgroup and signals Done when it has
	// cleanly shut down.
	wg := &sync.WaitGroup{}

	// interrupt: see cliListener
	interrupt := make(chan struct{})
	neurostring.RegisterShutdownChan(interrupt)

	var core *conductor.Conductor
	if conf.GetBool("coreEnabled") {
		core = conductor.New(conf, nil)
		core.Start(terminator, wg)
	}
	if conf.GetBool("apiEnabled") {
		var c api.Core
		if core != nil {
			c = core
		}
		api.New(conf, c).Start(terminator, wg)
	}
	go cliListener(core)

	neurostring.LogCLI("Waiting for terminate signal, press q to quit", 4)
	<-interrupt
	if err := markFirstRunDone(conf.GetString("rootDir") + "config.yaml"); err != nil {
		neurostring.LogCLI(err.Error(), 3)
	}
	close(terminator)
	wg.Wait()
	os.Exit(0)
}
