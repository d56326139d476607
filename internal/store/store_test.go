package store

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/vec"
)

func frame(tick int) dynamo.Snapshot {
	return dynamo.Snapshot{
		Tick: tick,
		Instances: []dynamo.Instance{
			{Position: vec.New(1, 2, 3), Radius: 0.05, Color: colorful.Color{R: 1, G: 0.5, B: 0.25}},
			{Position: vec.New(-4, 0, 0.5), Radius: 0.01},
		},
		Stats: dynamo.TickStats{Tick: tick, Count: 2, Collisions: tick, Kinetic: 0.5},
	}
}

func TestRecorderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(&buf)
	for i := 1; i <= 3; i++ {
		if err := rec.Write(frame(i)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if rec.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", rec.Frames())
	}

	frames, err := DecodeFrames(&buf)
	if err != nil {
		t.Fatalf("DecodeFrames: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("decoded %d frames, want 3", len(frames))
	}
	got, want := frames[1], frame(2)
	if got.Tick != want.Tick || got.Stats != want.Stats {
		t.Errorf("frame = %+v, want %+v", got, want)
	}
	for i := range want.Instances {
		if got.Instances[i] != want.Instances[i] {
			t.Errorf("instance %d = %+v, want %+v", i, got.Instances[i], want.Instances[i])
		}
	}
}

func TestRecorderFileObserver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.msgpack")
	rec, err := CreateRecorder(path)
	if err != nil {
		t.Fatalf("CreateRecorder: %v", err)
	}

	p := dynamo.DefaultParams()
	p.TargetCount = 50
	s, err := sim.New(p, nil)
	if err != nil {
		t.Fatalf("sim.New: %v", err)
	}
	s.AddObserver(rec)
	if _, err := s.Run(t.Context(), sim.Config{Ticks: 4}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	frames, err := ReadFrames(path)
	if err != nil {
		t.Fatalf("ReadFrames: %v", err)
	}
	if len(frames) != 4 {
		t.Fatalf("read %d frames, want 4", len(frames))
	}
	if frames[3].Tick != 4 || len(frames[3].Instances) != frames[3].Stats.Count {
		t.Errorf("last frame tick %d with %d instances, count %d",
			frames[3].Tick, len(frames[3].Instances), frames[3].Stats.Count)
	}
}

func TestExportJSON(t *testing.T) {
	res := &sim.Result{
		Stats:      []dynamo.TickStats{{Tick: 1, Count: 10}},
		Metrics:    map[string]float64{"retention": 0.9},
		TicksTaken: 1,
	}
	data := NewExportData("ring", "semi_implicit", dynamo.DefaultParams(), res)

	path := filepath.Join(t.TempDir(), "run.json")
	if err := ExportJSON(path, data); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	var buf bytes.Buffer
	if err := EncodeJSON(&buf, data); err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	var back ExportData
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Name != "ring" || back.Ticks != 1 || back.Metrics["retention"] != 0.9 {
		t.Errorf("decoded = %+v", back)
	}
	if back.Dt != dynamo.DefaultParams().Dt() {
		t.Errorf("Dt = %v, want %v", back.Dt, dynamo.DefaultParams().Dt())
	}
}
