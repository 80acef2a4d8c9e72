package taskfile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/rigsync/internal/rig"
)

func sampleTasks() []rig.TaskPoint {
	return []rig.TaskPoint{
		{Type: rig.TaskMove, GlobalPos: rig.Vertex{X: 1, Y: 2, Z: 3}},
		{Type: rig.TaskDrill, GlobalPos: rig.Vertex{X: -0.125, Y: 40, Z: 7.5}, Angle: rig.RotationAngle{X: 90}, Normal: rig.Vertex{Z: 1}},
		{Type: rig.TaskMark, GlobalPos: rig.Vertex{X: 100}},
	}
}

func TestStore_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job"+Ext)
	s := NewStore()
	homes := []rig.HomePoint{{GlobalPos: rig.Vertex{Y: 5}, Normal: rig.Vertex{Z: -1}}}

	if err := s.Save(path, sampleTasks(), homes); err != nil {
		t.Fatalf("Save: %v", err)
	}
	tasks, gotHomes, err := s.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := sampleTasks()
	if len(tasks) != len(want) {
		t.Fatalf("got %d tasks, want %d", len(tasks), len(want))
	}
	for i := range want {
		if tasks[i] != want[i] {
			t.Errorf("task %d = %+v, want %+v", i, tasks[i], want[i])
		}
	}
	if len(gotHomes) != 1 || gotHomes[0] != homes[0] {
		t.Errorf("homes = %+v", gotHomes)
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job"+Ext)
	s := NewStore()
	if err := s.Save(path, sampleTasks(), nil); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(path, sampleTasks()[:1], nil); err != nil {
		t.Fatal(err)
	}

	tasks, homes, err := s.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || len(homes) != 0 {
		t.Errorf("got %d tasks, %d homes", len(tasks), len(homes))
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %d entries", len(entries))
	}
}

func TestStore_LoadMissing(t *testing.T) {
	_, _, err := NewStore().Load(filepath.Join(t.TempDir(), "none"+Ext))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestStore_LoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"not json", "{tasks: nope", nil},
		{"future version", `{"version": 9, "tasks": []}`, ErrUnsupportedVersion},
		{"unknown type", `{"version": 1, "tasks": [{"type": "weld"}]}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad"+Ext)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, _, err := NewStore().Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestStore_WithEngine(t *testing.T) {
	dir := t.TempDir()
	backup := filepath.Join(dir, "_backup_points_"+Ext)
	store := NewStore()

	e := rig.New(rig.WithPointStore(store, backup))
	for _, tp := range sampleTasks() {
		e.AppendTaskPoint(tp)
	}
	e.AppendHomePoint(rig.HomePoint{GlobalPos: rig.Vertex{X: 9}})

	restored := rig.New(rig.WithPointStore(store, backup))
	if err := restored.LoadBackupPoints(); err != nil {
		t.Fatalf("LoadBackupPoints: %v", err)
	}
	if got := restored.TaskPoints(); len(got) != 3 || got[1].Type != rig.TaskDrill {
		t.Errorf("restored tasks = %+v", got)
	}
	if hp, ok := restored.HomePoint(); !ok || hp.GlobalPos != (rig.Vertex{X: 9}) {
		t.Errorf("restored home = %+v, %v", hp, ok)
	}
}
