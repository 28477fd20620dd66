package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseCmdLine(t *testing.T) {
	t.Run("positional uri", func(t *testing.T) {
		p, err := parseCmdLine([]string{"mongodb://localhost:27017/mydb"})
		require.NoError(t, err)
		assert.Equal(t, "mongodb://localhost:27017/mydb", p.uri)
		assert.False(t, p.readOnly)
		assert.Equal(t, "stdio", p.transport)
	})
	t.Run("read-only flags", func(t *testing.T) {
		for _, fl := range []string{"-r", "-read-only"} {
			p, err := parseCmdLine([]string{fl, "mongodb://localhost:27017/mydb"})
			require.NoErrorf(t, err, "flag %s", fl)
			assert.Truef(t, p.readOnly, "flag %s", fl)
		}
	})
	t.Run("uri from environment", func(t *testing.T) {
		t.Setenv(mongoURIEnv, "mongodb://envhost:27017/envdb")
		p, err := parseCmdLine(nil)
		require.NoError(t, err)
		assert.Equal(t, "mongodb://envhost:27017/envdb", p.uri)
	})
	t.Run("argument wins over environment", func(t *testing.T) {
		t.Setenv(mongoURIEnv, "mongodb://envhost:27017/envdb")
		p, err := parseCmdLine([]string{"mongodb://arghost:27017/argdb"})
		require.NoError(t, err)
		assert.Equal(t, "mongodb://arghost:27017/argdb", p.uri)
	})
	t.Run("missing uri", func(t *testing.T) {
		t.Setenv(mongoURIEnv, "")
		_, err := parseCmdLine(nil)
		assert.Error(t, err)
	})
	t.Run("version short-circuits", func(t *testing.T) {
		t.Setenv(mongoURIEnv, "")
		p, err := parseCmdLine([]string{"-V"})
		require.NoError(t, err)
		assert.True(t, p.printVersion)
	})
	t.Run("http transport options", func(t *testing.T) {
		p, err := parseCmdLine([]string{"-transport", "http", "-listen", "0.0.0.0:9000", "mongodb://localhost:27017/mydb"})
		require.NoError(t, err)
		assert.Equal(t, "http", p.transport)
		assert.Equal(t, "0.0.0.0:9000", p.listenAddr)
	})
}
