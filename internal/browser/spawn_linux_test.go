//go:build linux

package browser

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSpawnDetached_OwnProcessGroup(t *testing.T) {
	out := filepath.Join(t.TempDir(), "pgrp")
	script := "cut -d' ' -f5 /proc/$$/stat > " + out + ".tmp && mv " + out + ".tmp " + out

	require.NoError(t, spawnDetached("sh", []string{"-c", script}))

	var data []byte
	require.Eventually(t, func() bool {
		var err error
		data, err = os.ReadFile(out)
		return err == nil && len(strings.TrimSpace(string(data))) > 0
	}, 5*time.Second, 20*time.Millisecond)

	childPgrp, err := strconv.Atoi(strings.TrimSpace(string(data)))
	require.NoError(t, err)
	require.NotEqual(t, syscall.Getpgrp(), childPgrp, "browser must not share the CLI's process group")
}
