package testutil

import (
	"os"
	"testing"
)

// TempDir creates a temporary database directory for a test, removed
// automatically on test cleanup.
func TempDir(t *testing.T) string {
	dir, err := os.MkdirTemp("", "wasteisland-test-*")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.RemoveAll(dir)
	})
	return dir
}
