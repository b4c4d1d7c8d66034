package neurostring

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// SetDefaults registers every setting the network needs. It does not touch the filesystem so
// that tests can use a bare viper instance.
func SetDefaults(config *viper.Viper) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.TempDir()
	}
	config.SetDefault("rootDir", filepath.Join(homeDir, "neurostring")+"/")
	config.SetDefault("firstRun", true)
	config.SetDefault("logLevel", 4)
	config.SetDefault("listenAddr", "0.0.0.0:5000")
	config.SetDefault("apiEnabled", true)
	// when false the HTTP layer is started without the network behind it and says so
	config.SetDefault("coreEnabled", true)
	config.SetDefault("seedNodes", 3)
	// 0 seeds from the clock
	config.SetDefault("randomSeed", int64(0))
	config.SetDefault("wsInterval", 5*time.Second)
	// resonance memory is written to rootDir/data on shutdown and read back on start
	config.SetDefault("persistMemory", true)
}

// InitConfig sets up our Viper config object and persists it to rootDir/config.yaml
func InitConfig(config *viper.Viper) error {
	SetDefaults(config)
	config.SetConfigType("yaml")
	config.SetConfigFile(config.GetString("rootDir") + "config.yaml")
	if err := config.ReadInConfig(); err != nil {
		LogCLI(err.Error(), 4)
	}
	SetLogLevel(config.GetInt("logLevel"))
	// Create our working directory and config file if not exist
	if err := initRootDir(config); err != nil {
		return err
	}
	if err := Touch(config.GetString("rootDir") + "config.yaml"); err != nil {
		return fmt.Errorf("could not create config file: %w", err)
	}
	if err := config.WriteConfig(); err != nil {
		return fmt.Errorf("could not write config file: %w", err)
	}
	return nil
}

func initRootDir(conf *viper.Viper) error {
	_, err := os.Stat(conf.GetString("rootDir"))
	if os.IsNotExist(err) {
		if err = os.Mkdir(conf.GetString("rootDir"), 0755); err != nil {
			return fmt.Errorf("could not create root directory: %w", err)
		}
	}
	return nil
}
