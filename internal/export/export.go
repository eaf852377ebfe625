// Package export packages a finished chunk sequence into a downloadable
// video file.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Trucker2827/sb1-wf5mkd/internal/record"
)

// Exporter writes recordings into the output directory.
type Exporter struct {
	log *logrus.Entry

	outputDir string
	now       func() time.Time
}

// NewExporter builds an Exporter targeting outputDir.
func NewExporter(log *logrus.Logger, outputDir string) *Exporter {
	return &Exporter{
		log:       log.WithField("component", "export"),
		outputDir: outputDir,
		now:       time.Now,
	}
}

// Export concatenates the chunk sequence into one WebM file named with the
// current timestamp and returns its path. An empty (or nil) sequence is
// silently skipped, with both return values zero: there is nothing to
// export yet. The extension stays .webm regardless of what
// codec the encoder actually negotiated.
func (e *Exporter) Export(chunks *record.Chunks) (string, error) {
	if chunks == nil || chunks.Bytes() == 0 {
		return "", nil
	}

	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	name := fmt.Sprintf("screen-recording-%s.webm", e.now().UTC().Format(time.RFC3339))
	path := filepath.Join(e.outputDir, name)

	data := chunks.Concat()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing recording: %w", err)
	}

	e.log.WithFields(logrus.Fields{"path": path, "bytes": len(data)}).Info("recording exported")
	return path, nil
}
