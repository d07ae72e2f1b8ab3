package trajlog

import (
	"context"
	"path/filepath"

	"roomverse/internal/app/ports"
)

// Recorder decorates an ExecutionRepository with trajectory export:
// every saved record is also appended to the episode's compressed JSONL
// file and indexed in SQLite. It is a passive observer of the result
// stream and never mutates the records it sees.
type Recorder struct {
	inner  ports.ExecutionRepository
	writer *Writer
	index  *Index
}

func NewRecorder(dir, episodeID string, inner ports.ExecutionRepository) (*Recorder, error) {
	writer, err := NewWriter(filepath.Join(dir, episodeID+".jsonl.zst"))
	if err != nil {
		return nil, err
	}
	index, err := OpenIndex(filepath.Join(dir, "index.db"))
	if err != nil {
		_ = writer.Close()
		return nil, err
	}
	return &Recorder{inner: inner, writer: writer, index: index}, nil
}

func (r *Recorder) Save(ctx context.Context, rec ports.ExecutionRecord) error {
	if err := r.inner.Save(ctx, rec); err != nil {
		return err
	}
	if err := r.writer.Write(rec); err != nil {
		return err
	}
	return r.index.RecordStep(ctx, rec)
}

func (r *Recorder) ListByEpisode(ctx context.Context, episodeID string, limit int) ([]ports.ExecutionRecord, error) {
	return r.inner.ListByEpisode(ctx, episodeID, limit)
}

func (r *Recorder) Close() error {
	err := r.writer.Close()
	if cerr := r.index.Close(); err == nil {
		err = cerr
	}
	return err
}
