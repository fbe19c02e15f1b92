package utils

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeAddress(t *testing.T) {
	cases := map[string]string{
		"http://localhost:3000/health": "localhost:3000",
		"http://localhost":             "localhost:80",
		"https://roadmaps.example.com": "roadmaps.example.com:443",
		"db:5432":                      "db:5432",
		"127.0.0.1:3306":               "127.0.0.1:3306",
	}
	for in, want := range cases {
		got, err := ProbeAddress(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"://nope", "not-a-url", ""} {
		_, err := ProbeAddress(bad)
		assert.Error(t, err, bad)
	}
}

func TestProbeReachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	assert.NoError(t, Probe(context.Background(), "http://"+ln.Addr().String(), time.Second))
	assert.NoError(t, Probe(context.Background(), ln.Addr().String(), time.Second))
}

func TestProbeUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	assert.Error(t, Probe(context.Background(), addr, 200*time.Millisecond))
}
