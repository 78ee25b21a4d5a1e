package config

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"lukechampine.com/frand"
)

const (
	ConfigDataPath           = "data-path"
	ConfigBatchSize          = "batch-size"
	ConfigBoardSize          = "board-size"
	ConfigRandomFlip         = "random-flip"
	ConfigSeed               = "seed"
	ConfigMaxSteps           = "max-steps"
	ConfigLogEvery           = "log-every"
	ConfigOutputDir          = "output-dir"
	ConfigResume             = "resume"
	ConfigPreviousCheckpoint = "previous-checkpoint"
	ConfigPrefetch           = "prefetch"
	ConfigDebug              = "debug"
	ConfigFile               = "config"
)

// Config is a thin wrapper around viper. Values come from, in order of
// precedence: flags, MOVENET_* environment variables, a config file and
// the defaults below.
type Config struct {
	*viper.Viper
}

func DefaultConfig() *Config {
	c := &Config{viper.New()}
	c.SetDefault(ConfigDataPath, "")
	c.SetDefault(ConfigBatchSize, 64)
	c.SetDefault(ConfigBoardSize, 9)
	c.SetDefault(ConfigRandomFlip, true)
	c.SetDefault(ConfigSeed, 0)
	c.SetDefault(ConfigMaxSteps, 500)
	c.SetDefault(ConfigLogEvery, 20)
	c.SetDefault(ConfigOutputDir, "/tmp/saved_checkpoint/")
	c.SetDefault(ConfigResume, false)
	c.SetDefault(ConfigPreviousCheckpoint, "")
	c.SetDefault(ConfigPrefetch, false)
	c.SetDefault(ConfigDebug, false)
	return c
}

func (c *Config) flagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String(ConfigDataPath, c.GetString(ConfigDataPath), "file of training records, one game prefix per line")
	fs.Int(ConfigBatchSize, c.GetInt(ConfigBatchSize), "number of examples per batch")
	fs.Int(ConfigBoardSize, c.GetInt(ConfigBoardSize), "side of the square board")
	fs.Bool(ConfigRandomFlip, c.GetBool(ConfigRandomFlip), "randomly rotate examples by 180 degrees")
	fs.Int64(ConfigSeed, c.GetInt64(ConfigSeed), "seed for the augmentation RNG; 0 picks a random seed")
	fs.Int(ConfigMaxSteps, c.GetInt(ConfigMaxSteps), "number of training steps")
	fs.Int(ConfigLogEvery, c.GetInt(ConfigLogEvery), "log accuracy and checkpoint every n steps")
	fs.String(ConfigOutputDir, c.GetString(ConfigOutputDir), "directory for checkpoints and the accuracy log")
	fs.Bool(ConfigResume, c.GetBool(ConfigResume), "resume from --previous-checkpoint")
	fs.String(ConfigPreviousCheckpoint, c.GetString(ConfigPreviousCheckpoint), "checkpoint to resume from")
	fs.Bool(ConfigPrefetch, c.GetBool(ConfigPrefetch), "prepare the next batch while the current one is used")
	fs.Bool(ConfigDebug, c.GetBool(ConfigDebug), "debug logging")
	fs.String(ConfigFile, "", "optional yaml config file")
	return fs
}

// Load parses command-line arguments and the environment into c.
func (c *Config) Load(args []string) error {
	fs := c.flagSet("movenet")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.SetEnvPrefix("movenet")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if path, _ := fs.GetString(ConfigFile); path != "" {
		c.SetConfigFile(path)
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", path, err)
		}
	}
	return c.BindPFlags(fs)
}

// Validate checks the settings a training run needs before any file is
// opened.
func (c *Config) Validate() error {
	path := c.GetString(ConfigDataPath)
	if path == "" {
		return errors.New("no data path given")
	}
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return fmt.Errorf("data path %s is a directory", path)
	}
	if c.GetInt(ConfigBatchSize) <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.GetInt(ConfigBatchSize))
	}
	if c.GetInt(ConfigLogEvery) <= 0 {
		return fmt.Errorf("log-every must be positive, got %d", c.GetInt(ConfigLogEvery))
	}
	if c.GetInt(ConfigMaxSteps) < 0 {
		return fmt.Errorf("max-steps must not be negative, got %d", c.GetInt(ConfigMaxSteps))
	}
	if c.GetBool(ConfigResume) && c.GetString(ConfigPreviousCheckpoint) == "" {
		return errors.New("resume requested without a previous checkpoint")
	}
	if fi, err := os.Stat(c.GetString(ConfigOutputDir)); err == nil && !fi.IsDir() {
		return fmt.Errorf("output dir %s is not a directory", c.GetString(ConfigOutputDir))
	}
	return nil
}

// EnsureOutputDir creates the output directory if needed and returns its
// absolute path.
func (c *Config) EnsureOutputDir() (string, error) {
	dir, err := filepath.Abs(c.GetString(ConfigOutputDir))
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// NewRand returns the random source used for augmentation. A zero seed
// gives a randomly seeded generator; any other seed gives a reproducible
// stream.
func NewRand(seed int64) *frand.RNG {
	if seed == 0 {
		return frand.New()
	}
	key := make([]byte, 32)
	binary.LittleEndian.PutUint64(key, uint64(seed))
	return frand.NewCustom(key, 1024, 12)
}
