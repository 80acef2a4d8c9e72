package rig

import (
	"errors"
	"testing"
)

const backupPath = "_backup_points_.task"

func TestBackup_AfterEveryChange(t *testing.T) {
	store := newMemStore()
	e := New(WithPointStore(store, backupPath))

	e.AppendTaskPoint(TaskPoint{GlobalPos: Vertex{X: 1}})
	e.AppendHomePoint(HomePoint{GlobalPos: Vertex{Z: 1}})
	e.AppendCalibrationPoint(CalibrationPoint{})

	if store.saves != 2 {
		t.Errorf("saves = %d, want 2 (calibration points are not backed up)", store.saves)
	}
	if len(store.tasks[backupPath]) != 1 || len(store.homes[backupPath]) != 1 {
		t.Errorf("backup = %v / %v", store.tasks[backupPath], store.homes[backupPath])
	}
}

func TestBackup_NoPathDisables(t *testing.T) {
	store := newMemStore()
	e := New(WithPointStore(store, ""))
	e.AppendTaskPoint(TaskPoint{})
	if store.saves != 0 {
		t.Errorf("saves = %d, want 0", store.saves)
	}
}

func TestBackup_FailureIsReportedNotRolledBack(t *testing.T) {
	store := newMemStore()
	store.saveErr = errors.New("disk full")
	e := New(WithPointStore(store, backupPath))
	rec := subscribe(e)

	e.AppendTaskPoint(TaskPoint{GlobalPos: Vertex{X: 1}})

	if len(e.TaskPoints()) != 1 {
		t.Error("task point should stay after a failed backup")
	}
	want := []EventKind{EventPersistenceFailed, EventTaskPointsChanged}
	if !sameKinds(rec.kinds(), want) {
		t.Fatalf("events = %v, want %v", rec.kinds(), want)
	}
	if !errors.Is(rec.events[0].Err, ErrPersistence) {
		t.Errorf("event error = %v, want ErrPersistence", rec.events[0].Err)
	}
}

func TestSaveAndLoadPoints(t *testing.T) {
	store := newMemStore()
	e := New(WithPointStore(store, ""))
	e.AppendTaskPoint(TaskPoint{Type: TaskDrill, GlobalPos: Vertex{X: 1}})
	e.AppendTaskPoint(TaskPoint{Type: TaskMark, GlobalPos: Vertex{X: 2}})
	e.AppendHomePoint(HomePoint{GlobalPos: Vertex{Y: 3}})

	if err := e.SavePoints("job.task"); err != nil {
		t.Fatal(err)
	}

	other := New(WithPointStore(store, ""))
	if err := other.LoadPoints("job.task"); err != nil {
		t.Fatal(err)
	}
	tasks := other.TaskPoints()
	if len(tasks) != 2 || tasks[0].Type != TaskDrill || tasks[1].Type != TaskMark {
		t.Errorf("loaded tasks = %v", tasks)
	}
	if hp, ok := other.HomePoint(); !ok || hp.GlobalPos != (Vertex{Y: 3}) {
		t.Errorf("loaded home = %v, %v", hp, ok)
	}
}

func TestLoadPoints_KeepsHomeWhenFileHasNone(t *testing.T) {
	store := newMemStore()
	store.tasks["tasks-only.task"] = []TaskPoint{{GlobalPos: Vertex{X: 1}}}
	e := New(WithPointStore(store, ""))
	e.AppendHomePoint(HomePoint{GlobalPos: Vertex{Z: 5}})

	if err := e.LoadPoints("tasks-only.task"); err != nil {
		t.Fatal(err)
	}
	if hp, ok := e.HomePoint(); !ok || hp.GlobalPos != (Vertex{Z: 5}) {
		t.Errorf("home point = %v, %v; want kept", hp, ok)
	}
}

func TestLoadPoints_FailureLeavesState(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *memStore)
	}{
		{"read error", func(s *memStore) { s.loadErr = errors.New("permission denied") }},
		{"empty file", func(s *memStore) {}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			tt.setup(store)
			e := New(WithPointStore(store, ""))
			e.AppendTaskPoint(TaskPoint{GlobalPos: Vertex{X: 1}})
			rec := subscribe(e)

			if err := e.LoadPoints("missing.task"); !errors.Is(err, ErrPersistence) {
				t.Errorf("expected ErrPersistence, got %v", err)
			}
			if len(e.TaskPoints()) != 1 {
				t.Errorf("tasks = %v, want unchanged", e.TaskPoints())
			}
			if len(rec.events) != 0 {
				t.Errorf("failed load emitted %v", rec.kinds())
			}
		})
	}
}

func TestPersistence_NoStore(t *testing.T) {
	e := New()
	if err := e.SavePoints("x.task"); !errors.Is(err, ErrPersistence) {
		t.Errorf("SavePoints: expected ErrPersistence, got %v", err)
	}
	if err := e.LoadPoints("x.task"); !errors.Is(err, ErrPersistence) {
		t.Errorf("LoadPoints: expected ErrPersistence, got %v", err)
	}
	if err := e.LoadBackupPoints(); !errors.Is(err, ErrPersistence) {
		t.Errorf("LoadBackupPoints: expected ErrPersistence, got %v", err)
	}
}

func TestLoadBackupPoints(t *testing.T) {
	store := newMemStore()
	first := New(WithPointStore(store, backupPath))
	first.AppendTaskPoint(TaskPoint{GlobalPos: Vertex{X: 4}})

	second := New(WithPointStore(store, backupPath))
	if err := second.LoadBackupPoints(); err != nil {
		t.Fatal(err)
	}
	if tp, _ := second.TaskPoint(0); tp.GlobalPos != (Vertex{X: 4}) {
		t.Errorf("restored task = %v", tp)
	}
}

func TestLoadPoints_BacksUpOnce(t *testing.T) {
	store := newMemStore()
	store.tasks["job.task"] = []TaskPoint{{GlobalPos: Vertex{X: 7}}}
	store.homes["job.task"] = []HomePoint{{GlobalPos: Vertex{Z: 9}}}
	e := New(WithPointStore(store, backupPath))
	e.AppendHomePoint(HomePoint{GlobalPos: Vertex{Z: 1}})
	store.saves = 0
	rec := subscribe(e)

	if err := e.LoadPoints("job.task"); err != nil {
		t.Fatal(err)
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want 1", store.saves)
	}
	homes := store.homes[backupPath]
	if len(homes) != 1 || homes[0].GlobalPos != (Vertex{Z: 9}) {
		t.Errorf("backup home = %v, want the loaded one", homes)
	}
	want := []EventKind{EventTaskPointsChanged, EventHomePointsChanged}
	if !sameKinds(rec.kinds(), want) {
		t.Errorf("events = %v, want %v", rec.kinds(), want)
	}
}

func TestRecalibrate_BacksUpOnce(t *testing.T) {
	store := newMemStore()
	store.saveErr = errors.New("disk full")
	e := New(WithPointStore(store, backupPath))
	e.AppendTaskPoint(TaskPoint{GlobalPos: Vertex{X: 1}})
	store.saves = 0
	rec := subscribe(e)

	if err := e.Recalibrate(Part, Pose{GlobalPos: Vertex{X: 5}}); err != nil {
		t.Fatal(err)
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want 1", store.saves)
	}
	want := []EventKind{
		EventTransformChanged,
		EventPersistenceFailed,
		EventCalibrationPointsChanged,
		EventTaskPointsChanged,
		EventHomePointsChanged,
	}
	if !sameKinds(rec.kinds(), want) {
		t.Errorf("events = %v, want %v", rec.kinds(), want)
	}

	store.saves = 0
	e.ApplyGlobalCorrection(Vertex{Y: 1})
	if store.saves != 1 {
		t.Errorf("correction saves = %d, want 1", store.saves)
	}
}
