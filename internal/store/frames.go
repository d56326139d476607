package store

import (
	"bufio"
	"errors"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Recorder appends snapshots to a stream as consecutive msgpack values.
type Recorder struct {
	w      *bufio.Writer
	enc    *msgpack.Encoder
	closer io.Closer
	frames int
}

func NewRecorder(w io.Writer) *Recorder {
	bw := bufio.NewWriter(w)
	return &Recorder{w: bw, enc: msgpack.NewEncoder(bw)}
}

// CreateRecorder truncates path and records into it.
func CreateRecorder(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	r := NewRecorder(f)
	r.closer = f
	return r, nil
}

func (r *Recorder) Write(snap dynamo.Snapshot) error {
	if err := r.enc.Encode(&snap); err != nil {
		return err
	}
	r.frames++
	return nil
}

// OnTick records every published snapshot. Write errors are kept for Close.
func (r *Recorder) OnTick(snap dynamo.Snapshot) {
	_ = r.Write(snap)
}

func (r *Recorder) Frames() int { return r.frames }

func (r *Recorder) Close() error {
	err := r.w.Flush()
	if r.closer != nil {
		if cerr := r.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// DecodeFrames reads snapshots until EOF.
func DecodeFrames(rd io.Reader) ([]dynamo.Snapshot, error) {
	dec := msgpack.NewDecoder(bufio.NewReader(rd))
	var frames []dynamo.Snapshot
	for {
		var snap dynamo.Snapshot
		if err := dec.Decode(&snap); err != nil {
			if errors.Is(err, io.EOF) {
				return frames, nil
			}
			return frames, err
		}
		frames = append(frames, snap)
	}
}

func ReadFrames(path string) ([]dynamo.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeFrames(f)
}
