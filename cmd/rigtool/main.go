// rigtool is a CLI utility for inspecting and adjusting a rig's calibration
// and points.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/rigsync/internal/config"
	"github.com/Faultbox/rigsync/internal/device"
	"github.com/Faultbox/rigsync/internal/logger"
	"github.com/Faultbox/rigsync/internal/rig"
	"github.com/Faultbox/rigsync/internal/scene"
	"github.com/Faultbox/rigsync/internal/session"
	"github.com/Faultbox/rigsync/pkg/math"
)

func main() {
	config.ParseFlags()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := args[0]
	args = args[1:]

	var cmdErr error
	switch command {
	case "info":
		cmdErr = cmdInfo(cfg, args)
	case "recalibrate", "recal":
		cmdErr = cmdRecalibrate(cfg, args)
	case "correct":
		cmdErr = cmdCorrect(cfg, args)
	case "replay":
		cmdErr = cmdReplay(cfg, args)
	case "move-task":
		cmdErr = cmdMoveTask(cfg, args)
	case "load":
		cmdErr = cmdLoad(cfg, args)
	case "save":
		cmdErr = cmdSave(cfg, args)
	case "pick":
		cmdErr = cmdPick(cfg, args)
	case "pick-screen":
		cmdErr = cmdPickScreen(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if cmdErr != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(cmdErr))
		fmt.Fprintf(os.Stderr, "Error: %v\n", cmdErr)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`rigtool - rig calibration and points utility

Usage:
  rigtool [flags] <command> [options]

Commands:
  info                                  Show body placements and points
  recalibrate <body> x y z [rx ry rz]   Place a body at a pose
  correct [-pixels] dx dy [dz]          Apply a snapshot correction
  replay [-paced] <feedback.log>        Replay a recorded device feedback log
  move-task <from> <to>                 Reorder a task point
  load <file.task>                      Load task and home points
  save <file.task>                      Save task and home points
  pick x y z dx dy dz                   Pick what a ray hits
  pick-screen [opts] x y                Pick under a pixel of a camera fitted to the rig

Flags:
  -config, -debug, -log-file, -settings, -backup, -frame

Examples:
  rigtool info
  rigtool recalibrate part 120 40 0 0 0 90
  rigtool correct -pixels 12 -3
  rigtool -frame desk replay session.log`)
}

// open starts a session with the backed-up points restored.
func open(cfg *config.Config) (*session.Session, error) {
	s, err := session.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := s.RestoreBackup(); err != nil {
		logger.Warn("points backup not restored", zap.Error(err))
	}
	return s, nil
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

func cmdInfo(cfg *config.Config, args []string) error {
	s, err := open(cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	e := s.Engine

	fmt.Printf("Points frame: %s\n", e.PointsFrame())
	fmt.Printf("Body state:   %s\n", e.BodyState())
	fmt.Printf("Calibration:  %s\n", e.CalibResult())
	fmt.Println()
	fmt.Println("Bodies:")
	for _, b := range rig.Bodies {
		p := e.Calibration(b)
		tr := e.Transform(b).Translation()
		shape := e.Shape(b).Name
		if shape == "" {
			shape = "-"
		}
		fmt.Printf("  %-6s at (%.3f, %.3f, %.3f)  rot (%.2f, %.2f, %.2f)  scale %.3f  shape %s\n",
			b, tr.X, tr.Y, tr.Z,
			p.RotationOffset.X, p.RotationOffset.Y, p.RotationOffset.Z,
			p.Scale, shape)
	}

	fmt.Println()
	fmt.Printf("Calibration points: %d\n", len(e.CalibrationPoints()))
	fmt.Printf("Task points:        %d\n", len(e.TaskPoints()))
	for i, tp := range e.TaskPoints() {
		fmt.Printf("  %3d %-5s (%.3f, %.3f, %.3f)\n", i, tp.Type, tp.GlobalPos.X, tp.GlobalPos.Y, tp.GlobalPos.Z)
	}
	if hp, ok := e.HomePoint(); ok {
		fmt.Printf("Home point:         (%.3f, %.3f, %.3f)\n", hp.GlobalPos.X, hp.GlobalPos.Y, hp.GlobalPos.Z)
	}
	if start, end, ok := s.Scene.Beam(); ok && start != end {
		fmt.Printf("Laser beam:         (%.3f, %.3f, %.3f) -> (%.3f, %.3f, %.3f)\n",
			start.X, start.Y, start.Z, end.X, end.Y, end.Z)
	}
	return nil
}

func cmdRecalibrate(cfg *config.Config, args []string) error {
	if len(args) != 4 && len(args) != 7 {
		return errors.New("usage: rigtool recalibrate <body> x y z [rx ry rz]")
	}
	body, err := rig.ParseBody(args[0])
	if err != nil {
		return err
	}
	v, err := parseFloats(args[1:])
	if err != nil {
		return err
	}
	pose := rig.Pose{GlobalPos: rig.Vertex{X: v[0], Y: v[1], Z: v[2]}}
	if len(v) == 6 {
		pose.GlobalRotation = rig.RotationAngle{X: v[3], Y: v[4], Z: v[5]}
	}

	s, err := open(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Engine.Recalibrate(body, pose); err != nil {
		return err
	}
	if err := s.SaveSettings(); err != nil {
		return err
	}
	fmt.Printf("%s recalibrated to (%.3f, %.3f, %.3f)\n", body, v[0], v[1], v[2])
	return nil
}

func cmdCorrect(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("correct", flag.ContinueOnError)
	pixels := fs.Bool("pixels", false, "Offsets are snapshot pixels, scaled by the snapshot scale")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 && fs.NArg() != 3 {
		return errors.New("usage: rigtool correct [-pixels] dx dy [dz]")
	}
	v, err := parseFloats(fs.Args())
	if err != nil {
		return err
	}

	s, err := open(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	delta := rig.Vertex{X: v[0], Y: v[1]}
	if *pixels {
		delta = s.Settings.SnapshotDelta(v[0], v[1])
	}
	if len(v) == 3 {
		delta.Z = v[2]
	}

	s.Engine.ApplyGlobalCorrection(delta)
	if err := s.SaveSettings(); err != nil {
		return err
	}
	fmt.Printf("Correction (%.4f, %.4f, %.4f) applied\n", delta.X, delta.Y, delta.Z)
	return nil
}

func cmdReplay(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	paced := fs.Bool("paced", false, "Replay at the recorded pace")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: rigtool replay [-paced] <feedback.log>")
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()

	s, err := open(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	n, replayErr := device.Replay(ctx, device.NewReader(f), s.Pump, *paced)
	s.Close()
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if replayErr != nil {
		return fmt.Errorf("after %d records: %w", n, replayErr)
	}

	fmt.Printf("Replayed %d records\n", n)
	fmt.Printf("Body state: %s\n", s.Engine.BodyState())
	for _, b := range []rig.Body{rig.Part, rig.LaserHead, rig.Gripper} {
		tr := s.Engine.Transform(b).Translation()
		fmt.Printf("  %-6s at (%.3f, %.3f, %.3f)\n", b, tr.X, tr.Y, tr.Z)
	}
	return nil
}

func cmdMoveTask(cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: rigtool move-task <from> <to>")
	}
	from, err := strconv.Atoi(args[0])
	if err != nil {
		return err
	}
	to, err := strconv.Atoi(args[1])
	if err != nil {
		return err
	}

	s, err := open(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Engine.MoveTaskPoint(from, to); err != nil {
		return err
	}
	fmt.Printf("Task %d moved to %d\n", from, to)
	return nil
}

func cmdLoad(cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: rigtool load <file.task>")
	}
	s, err := session.New(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Engine.LoadPoints(args[0]); err != nil {
		return err
	}
	fmt.Printf("Loaded %d task points\n", len(s.Engine.TaskPoints()))
	return nil
}

func cmdSave(cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: rigtool save <file.task>")
	}
	s, err := open(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Engine.SavePoints(args[0]); err != nil {
		return err
	}
	fmt.Printf("Saved %d task points to %s\n", len(s.Engine.TaskPoints()), args[0])
	return nil
}

func cmdPick(cfg *config.Config, args []string) error {
	if len(args) != 6 {
		return errors.New("usage: rigtool pick x y z dx dy dz")
	}
	v, err := parseFloats(args)
	if err != nil {
		return err
	}

	s, err := open(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	printPick(s.Scene, scene.NewRay(rig.Vertex{X: v[0], Y: v[1], Z: v[2]}, rig.Vertex{X: v[3], Y: v[4], Z: v[5]}))
	return nil
}

func cmdPickScreen(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("pick-screen", flag.ContinueOnError)
	width := fs.Float64("width", 1280, "Viewport width in pixels")
	height := fs.Float64("height", 720, "Viewport height in pixels")
	yaw := fs.Float64("yaw", 0, "Camera yaw in degrees")
	pitch := fs.Float64("pitch", 35, "Camera pitch in degrees")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errors.New("usage: rigtool pick-screen [-width w] [-height h] [-yaw deg] [-pitch deg] x y")
	}
	v, err := parseFloats(fs.Args())
	if err != nil {
		return err
	}

	s, err := open(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	cam := scene.NewOrbitCamera()
	cam.Yaw = *yaw * math.DegToRad
	cam.Pitch = *pitch * math.DegToRad
	if box, ok := s.Scene.Bounds(); ok {
		cam.FitToBounds(box)
	}
	ray, err := cam.ScreenToRay(v[0], v[1], *width, *height)
	if err != nil {
		return err
	}
	printPick(s.Scene, ray)
	return nil
}

func printPick(sc *scene.Scene, ray scene.Ray) {
	hit, ok := sc.Pick(ray)
	switch {
	case !ok:
		if p, onDesk := sc.PickDesk(ray); onDesk {
			fmt.Printf("Nothing hit; desk plane at (%.3f, %.3f, %.3f)\n", p.X, p.Y, p.Z)
		} else {
			fmt.Println("Nothing hit")
		}
	case hit.Kind == scene.HitPoint:
		fmt.Printf("%s point %d at distance %.3f\n", hit.Points, hit.Index, hit.Distance)
	default:
		fmt.Printf("%s at (%.3f, %.3f, %.3f), distance %.3f\n",
			hit.Body, hit.Position.X, hit.Position.Y, hit.Position.Z, hit.Distance)
	}
}
