package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRealMainExitCodes(t *testing.T) {
	assert.Equal(t, 2, realMain(newFlagSet(), []string{"-store", "redis"}), "bad config")
	assert.Equal(t, 0, realMain(newFlagSet(), []string{"-routes"}), "route docs")
	assert.Equal(t, 1, realMain(newFlagSet(), []string{"-addr", "no-port", "-diag_addr", "127.0.0.1:0"}), "listen failure")
}
