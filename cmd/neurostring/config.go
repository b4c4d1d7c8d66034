package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"neurostring/neurostring"
)

type overrides struct {
	listen string
	seed   int64
	noAPI  bool
	noCore bool
}

func (o *overrides) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.listen, "listen", "", "address for the HTTP server, overrides listenAddr")
	cmd.Flags().Int64Var(&o.seed, "seed", 0, "random seed, overrides randomSeed")
	cmd.Flags().BoolVar(&o.noAPI, "no-api", false, "do not start the HTTP server")
	cmd.Flags().BoolVar(&o.noCore, "no-core", false, "serve the HTTP layer without a network behind it")
}

// initConfig loads rootDir/config.yaml and applies the command line overrides for this run.
// The overrides are set after the file is written and never reach it.
func initConfig(conf *viper.Viper, cmd *cobra.Command, o *overrides) error {
	if err := neurostring.InitConfig(conf); err != nil {
		return err
	}
	if cmd.Flags().Changed("listen") {
		conf.Set("listenAddr", o.listen)
	}
	if cmd.Flags().Changed("seed") {
		conf.Set("randomSeed", o.seed)
	}
	if o.noAPI {
		conf.Set("apiEnabled", false)
	}
	if o.noCore {
		conf.Set("coreEnabled", false)
	}
	return nil
}

// markFirstRunDone clears firstRun in the config file at path. It goes through its own viper so
// the overrides set on the running config stay out of the file.
func markFirstRunDone(path string) error {
	file := viper.New()
	file.SetConfigType("yaml")
	file.SetConfigFile(path)
	if err := file.ReadInConfig(); err != nil {
		return fmt.Errorf("could not read config file: %w", err)
	}
	file.Set("firstRun", false)
	if err := file.WriteConfig(); err != nil {
		return fmt.Errorf("could not write config file: %w", err)
	}
	return nil
}
