package gogpu

import "testing"

func TestNameAndLogger(t *testing.T) {
	b := New()
	if b.Name() != "wgpu" {
		t.Fatalf("Name() = %q, want wgpu", b.Name())
	}
	b.SetLogger(nil) // must not panic on a nil logger
}

func TestCloseBeforeInitIsNoop(t *testing.T) {
	b := New()
	b.Close() // must not panic when never initialized
}
