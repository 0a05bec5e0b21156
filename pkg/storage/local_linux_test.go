//go:build linux

package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// procWithoutXattrs returns a Local rooted at /proc/self when procfs rejects
// security xattrs with ENOTSUP
func procWithoutXattrs(t *testing.T) *Local {
	t.Helper()
	if _, err := unix.Lgetxattr("/proc/self/status", "security.selinux", nil); !errors.Is(err, unix.ENOTSUP) {
		t.Skipf("procfs does not reject security xattrs here: %v", err)
	}
	local, err := NewLocal("/proc/self")
	require.NoError(t, err)
	return local
}

// TestLocalGetxattr_Unsupported tests that ENOTSUP is an error, not an absent attribute
func TestLocalGetxattr_Unsupported(t *testing.T) {
	local := procWithoutXattrs(t)

	value, ok, err := local.Getxattr(context.Background(), "status", "security.selinux")
	require.Error(t, err)
	assert.ErrorIs(t, err, unix.ENOTSUP)
	assert.False(t, ok)
	assert.Nil(t, value)
}
