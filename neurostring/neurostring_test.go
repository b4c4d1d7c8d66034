package neurostring

import (
	"io"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermille(t *testing.T) {
	tests := []struct {
		signed, total, want int64
	}{
		{0, 0, 0},
		{1, 3, 333},
		{2, 3, 666},
		{4, 6, 666},
		{6, 6, 1000},
		{7, 6, 1000},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, Permille(test.signed, test.total), "%d/%d", test.signed, test.total)
	}
}

func TestHashSeqDeterministic(t *testing.T) {
	hash := func() S256Hash {
		var hs HashSeq
		for _, d := range []interface{}{"a", int64(1), 2, 0.5, []byte{1}, []string{"x", "y"}, true} {
			require.NoError(t, hs.AppendData(d))
		}
		hs.S256()
		assert.Zero(t, hs.Data.Len())
		return hs.Hash
	}
	assert.Equal(t, hash(), hash())
	assert.Len(t, hash(), 64)

	var hs HashSeq
	assert.Error(t, hs.AppendData(struct{}{}))
}

func TestSha256(t *testing.T) {
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", Sha256([]byte("hello")))
}

func TestInverseBloomFilter(t *testing.T) {
	first := MakeNewInverseBloomFilter(100)
	assert.True(t, first("a"))
	assert.False(t, first("a"))
	assert.True(t, first("b"))
}

func TestRandomSeeded(t *testing.T) {
	a, b := NewRandom(5), NewRandom(5)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
		assert.Equal(t, a.Intn(100), b.Intn(100))
	}
	for i := 0; i < 100; i++ {
		u := Uniform(a, 0.3, 0.7)
		assert.GreaterOrEqual(t, u, 0.3)
		assert.Less(t, u, 0.7)
	}
}

func TestDatabaseRoundTrip(t *testing.T) {
	dir := t.TempDir()
	_, ok := Open(dir, "resonance", "current")
	assert.False(t, ok)

	require.NoError(t, Write(dir, "resonance", "current", []byte(`[]`)))
	require.NoError(t, Write(dir, "resonance", "current", []byte(`[1]`)))
	f, ok := Open(dir, "resonance", "current")
	require.True(t, ok)
	defer f.Close()
	b, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "[1]", string(b))
}

func TestInitConfig(t *testing.T) {
	conf := viper.New()
	dir := t.TempDir() + "/"
	SetDefaults(conf)
	assert.Equal(t, "0.0.0.0:5000", conf.GetString("listenAddr"))
	assert.Equal(t, 3, conf.GetInt("seedNodes"))
	assert.True(t, conf.GetBool("coreEnabled"))

	conf.Set("rootDir", dir)
	conf.Set("logLevel", 2)
	require.NoError(t, InitConfig(conf))
	require.NoError(t, Touch(dir+"config.yaml"))

	reread := viper.New()
	reread.SetConfigFile(dir + "config.yaml")
	require.NoError(t, reread.ReadInConfig())
	assert.Equal(t, 2, reread.GetInt("logLevel"))
	SetLogLevel(4)
}
