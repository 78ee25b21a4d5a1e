package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	is.NoErr(cfg.Load(nil))
	is.Equal(cfg.GetInt(ConfigBatchSize), 64)
	is.Equal(cfg.GetInt(ConfigBoardSize), 9)
	is.Equal(cfg.GetInt(ConfigLogEvery), 20)
	is.True(cfg.GetBool(ConfigRandomFlip))
	is.True(!cfg.GetBool(ConfigPrefetch))
}

func TestPrecedence(t *testing.T) {
	is := is.New(t)
	t.Setenv("MOVENET_BATCH_SIZE", "32")
	t.Setenv("MOVENET_MAX_STEPS", "7")

	cfg := DefaultConfig()
	is.NoErr(cfg.Load([]string{"--max-steps", "11", "--random-flip=false"}))
	is.Equal(cfg.GetInt(ConfigBatchSize), 32) // env over default
	is.Equal(cfg.GetInt(ConfigMaxSteps), 11)  // flag over env
	is.True(!cfg.GetBool(ConfigRandomFlip))
}

func TestConfigFile(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "movenet.yaml")
	is.NoErr(os.WriteFile(path, []byte("batch-size: 16\nboard-size: 13\n"), 0o644))

	cfg := DefaultConfig()
	is.NoErr(cfg.Load([]string{"--config", path, "--board-size", "11"}))
	is.Equal(cfg.GetInt(ConfigBatchSize), 16)
	is.Equal(cfg.GetInt(ConfigBoardSize), 11)
}

func TestValidate(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	data := filepath.Join(dir, "train.txt")
	is.NoErr(os.WriteFile(data, []byte("B[a1] W[b2]\n"), 0o644))

	cfg := DefaultConfig()
	is.True(cfg.Validate() != nil) // no data path

	cfg.Set(ConfigDataPath, data)
	cfg.Set(ConfigOutputDir, filepath.Join(dir, "out"))
	is.NoErr(cfg.Validate())

	cfg.Set(ConfigBatchSize, 0)
	is.True(cfg.Validate() != nil)
	cfg.Set(ConfigBatchSize, 8)

	cfg.Set(ConfigOutputDir, data)
	is.True(cfg.Validate() != nil)
	cfg.Set(ConfigOutputDir, filepath.Join(dir, "out"))

	cfg.Set(ConfigResume, true)
	is.True(cfg.Validate() != nil)

	cfg.Set(ConfigDataPath, dir)
	cfg.Set(ConfigResume, false)
	is.True(cfg.Validate() != nil)
}

func TestEnsureOutputDir(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	cfg.Set(ConfigOutputDir, filepath.Join(t.TempDir(), "a", "b"))
	dir, err := cfg.EnsureOutputDir()
	is.NoErr(err)
	fi, err := os.Stat(dir)
	is.NoErr(err)
	is.True(fi.IsDir())
}

func TestNewRandSeeded(t *testing.T) {
	is := is.New(t)
	a := NewRand(42)
	b := NewRand(42)
	c := NewRand(43)
	same := true
	for i := 0; i < 16; i++ {
		x, y, z := a.Float64(), b.Float64(), c.Float64()
		is.Equal(x, y)
		is.True(x >= 0 && x < 1)
		if x != z {
			same = false
		}
	}
	is.True(!same)
}
