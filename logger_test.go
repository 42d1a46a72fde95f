package panoblend

import (
	"bytes"
	"log/slog"
	"testing"
)

func TestDefaultLoggerIsSilent(t *testing.T) {
	if Logger() == nil {
		t.Fatal("Logger() returned nil")
	}
	Logger().Info("this should produce no output")
}

func TestSetLoggerAndRestore(t *testing.T) {
	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, nil))
	SetLogger(custom)
	t.Cleanup(func() { SetLogger(nil) })

	Logger().Info("hello")
	if buf.Len() == 0 {
		t.Fatal("expected SetLogger's handler to receive output")
	}
}

func TestSetLoggerNilRestoresSilence(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	SetLogger(nil)
	Logger().Info("should be discarded")
	if buf.Len() != 0 {
		t.Fatalf("expected no output after SetLogger(nil), got %q", buf.String())
	}
}
