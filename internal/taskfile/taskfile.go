// Package taskfile reads and writes task point files (.task).
//
// A task file is JSON holding the ordered task points of a job and an
// optional home point.
package taskfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Faultbox/rigsync/internal/rig"
)

// Version is the file format version written by Save.
const Version = 1

// Ext is the conventional task file extension.
const Ext = ".task"

var ErrUnsupportedVersion = errors.New("unsupported task file version")

// File is the on-disk layout.
type File struct {
	Version int        `json:"version"`
	Tasks   []TaskData `json:"tasks"`
	Home    []HomeData `json:"home,omitempty"`
}

// Vec3Data is a position or direction.
type Vec3Data struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// TaskData is one serialized task point.
type TaskData struct {
	Type   string   `json:"type"`
	Pos    Vec3Data `json:"pos"`
	Angle  Vec3Data `json:"angle"`
	Normal Vec3Data `json:"normal"`
}

// HomeData is a serialized home point.
type HomeData struct {
	Pos    Vec3Data `json:"pos"`
	Normal Vec3Data `json:"normal"`
}

// Store implements rig.PointStore on the local filesystem.
type Store struct{}

// NewStore creates a filesystem store.
func NewStore() *Store {
	return &Store{}
}

// Save writes tasks and homes to path. The file is replaced atomically.
func (s *Store) Save(path string, tasks []rig.TaskPoint, homes []rig.HomePoint) error {
	f := Encode(tasks, homes)
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Load reads the task and home points stored at path.
func (s *Store) Load(path string) ([]rig.TaskPoint, []rig.HomePoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return Decode(&f)
}

// Encode converts points into the file layout.
func Encode(tasks []rig.TaskPoint, homes []rig.HomePoint) *File {
	f := &File{
		Version: Version,
		Tasks:   make([]TaskData, 0, len(tasks)),
	}
	for _, t := range tasks {
		f.Tasks = append(f.Tasks, TaskData{
			Type:   t.Type.String(),
			Pos:    fromVertex(t.GlobalPos),
			Angle:  Vec3Data{X: t.Angle.X, Y: t.Angle.Y, Z: t.Angle.Z},
			Normal: fromVertex(t.Normal),
		})
	}
	for _, h := range homes {
		f.Home = append(f.Home, HomeData{
			Pos:    fromVertex(h.GlobalPos),
			Normal: fromVertex(h.Normal),
		})
	}
	return f
}

// Decode converts the file layout into points.
func Decode(f *File) ([]rig.TaskPoint, []rig.HomePoint, error) {
	if f.Version != Version {
		return nil, nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, f.Version)
	}

	tasks := make([]rig.TaskPoint, 0, len(f.Tasks))
	for i, td := range f.Tasks {
		typ, err := rig.ParseTaskType(td.Type)
		if err != nil {
			return nil, nil, fmt.Errorf("task %d: %w", i, err)
		}
		tasks = append(tasks, rig.TaskPoint{
			Type:      typ,
			GlobalPos: td.Pos.vertex(),
			Angle:     rig.RotationAngle{X: td.Angle.X, Y: td.Angle.Y, Z: td.Angle.Z},
			Normal:    td.Normal.vertex(),
		})
	}

	homes := make([]rig.HomePoint, 0, len(f.Home))
	for _, hd := range f.Home {
		homes = append(homes, rig.HomePoint{
			GlobalPos: hd.Pos.vertex(),
			Normal:    hd.Normal.vertex(),
		})
	}
	return tasks, homes, nil
}

func fromVertex(v rig.Vertex) Vec3Data {
	return Vec3Data{X: v.X, Y: v.Y, Z: v.Z}
}

func (d Vec3Data) vertex() rig.Vertex {
	return rig.Vertex{X: d.X, Y: d.Y, Z: d.Z}
}
