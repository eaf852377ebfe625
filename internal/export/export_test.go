package export

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/Trucker2827/sb1-wf5mkd/internal/logging"
	"github.com/Trucker2827/sb1-wf5mkd/internal/record"
)

func TestExportEmptyIsSilentNoOp(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(logging.Discard(), dir)

	for _, chunks := range []*record.Chunks{nil, record.NewChunks()} {
		path, err := e.Export(chunks)
		if err != nil {
			t.Fatalf("export: %v", err)
		}
		if path != "" {
			t.Errorf("path = %q, want empty", path)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("no file should be written, found %d", len(entries))
	}
}

func TestExportWritesConcatenatedChunks(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(logging.Discard(), dir)
	e.now = func() time.Time {
		return time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC)
	}

	chunks := record.NewChunks()
	chunks.Append([]byte("webm-"))
	chunks.Append([]byte("bytes"))

	path, err := e.Export(chunks)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	want := filepath.Join(dir, "screen-recording-2024-05-17T09:30:00Z.webm")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(data) != "webm-bytes" {
		t.Errorf("artifact = %q", data)
	}
}

func TestExportFilenamePattern(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(logging.Discard(), dir)

	chunks := record.NewChunks()
	chunks.Append([]byte("x"))

	path, err := e.Export(chunks)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	pattern := regexp.MustCompile(`^screen-recording-\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z\.webm$`)
	if !pattern.MatchString(filepath.Base(path)) {
		t.Errorf("filename %q does not match screen-recording-<ISO8601>.webm", filepath.Base(path))
	}
}
