// Package sim replays a scripted input sequence through the engine without a
// terminal. The same script always yields the same trajectory hash, so
// recorded runs double as determinism checks.
package sim

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"hash/fnv"
	"math"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/skybeat/internal/engine"
	"github.com/vovakirdan/skybeat/internal/entity"
	"github.com/vovakirdan/skybeat/internal/levels"
)

// Input actions understood in scripts.
const (
	ActionJumpStart = "jump_start"
	ActionJumpEnd   = "jump_end"
	ActionDashLeft  = "dash_left"
	ActionDashRight = "dash_right"
)

// ErrInvalidScript is matched by every script validation failure.
var ErrInvalidScript = errors.New("invalid script")

// Input is one action applied before the given frame is simulated.
type Input struct {
	Frame  int    `yaml:"frame"`
	Action string `yaml:"action"`
}

// Script describes one headless run.
type Script struct {
	Level   string  `yaml:"level,omitempty"`
	Endless bool    `yaml:"endless,omitempty"`
	Seed    int64   `yaml:"seed,omitempty"`
	Frames  int     `yaml:"frames"`
	DtMs    float64 `yaml:"dt_ms,omitempty"` // defaults to 1000/60
	Inputs  []Input `yaml:"inputs,omitempty"`
}

// ParseScript decodes a YAML script and validates it.
func ParseScript(data []byte) (Script, error) {
	var s Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return Script{}, fmt.Errorf("sim: parsing script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Script{}, err
	}
	return s, nil
}

// Validate checks frame counts and action names.
func (s Script) Validate() error {
	if s.Frames <= 0 {
		return fmt.Errorf("%w: frames must be positive, got %d", ErrInvalidScript, s.Frames)
	}
	if s.DtMs < 0 || math.IsNaN(s.DtMs) {
		return fmt.Errorf("%w: dt_ms must not be negative", ErrInvalidScript)
	}
	for i, in := range s.Inputs {
		if in.Frame < 0 || in.Frame >= s.Frames {
			return fmt.Errorf("%w: inputs[%d]: frame %d outside [0, %d)", ErrInvalidScript, i, in.Frame, s.Frames)
		}
		switch in.Action {
		case ActionJumpStart, ActionJumpEnd, ActionDashLeft, ActionDashRight:
		default:
			return fmt.Errorf("%w: inputs[%d]: unknown action %q", ErrInvalidScript, i, in.Action)
		}
	}
	return nil
}

// Result summarizes a finished replay.
type Result struct {
	Level   string
	Frames  int // frames actually simulated
	State   engine.State
	PlayerX float64
	PlayerY float64
	CameraY float64
	Hash    uint64 // FNV-64a over the player position, vertical velocity and score
	Events  map[string]int
}

// Run loads the script's level into e and replays it. The replay stops early
// once the run ends.
func Run(e *engine.Engine, loader *levels.Loader, s Script) (Result, error) {
	if err := s.Validate(); err != nil {
		return Result{}, err
	}

	res := Result{Events: make(map[string]int)}
	if s.Endless {
		if err := e.LoadEndless(s.Seed); err != nil {
			return Result{}, err
		}
		res.Level = "endless"
	} else {
		lvl, err := pickLevel(loader, s.Level)
		if err != nil {
			return Result{}, err
		}
		if err := e.LoadLevel(lvl); err != nil {
			return Result{}, err
		}
		res.Level = lvl.ID
	}

	dt := s.DtMs
	if dt == 0 {
		dt = 1000.0 / 60.0
	}

	inputs := append([]Input(nil), s.Inputs...)
	sort.SliceStable(inputs, func(i, j int) bool { return inputs[i].Frame < inputs[j].Frame })

	tr := newTrajectory()

	next := 0
	for frame := 0; frame < s.Frames; frame++ {
		for next < len(inputs) && inputs[next].Frame == frame {
			apply(e, inputs[next].Action)
			next++
		}

		f := e.Update(dt)
		res.Frames++
		for _, ev := range f.Events {
			res.Events[ev.Kind.String()]++
		}

		tr.add(e.Player(), f.State.Score)

		if f.State.Dead || f.State.Complete {
			break
		}
	}

	p := e.Player()
	res.State = e.State()
	res.PlayerX, res.PlayerY = p.X, p.Y
	res.CameraY = e.CameraY()
	res.Hash = tr.sum()
	return res, nil
}

func apply(e *engine.Engine, action string) {
	switch action {
	case ActionJumpStart:
		e.OnJumpStart()
	case ActionJumpEnd:
		e.OnJumpEnd()
	case ActionDashLeft:
		e.OnDash(-1)
	case ActionDashRight:
		e.OnDash(1)
	}
}

func pickLevel(loader *levels.Loader, id string) (levels.Level, error) {
	if id != "" {
		return loader.LoadByID(id)
	}
	all, err := loader.LoadAll()
	if err != nil {
		return levels.Level{}, err
	}
	if len(all) == 0 {
		return levels.Level{}, fmt.Errorf("sim: no levels available")
	}
	return all[0], nil
}

// trajectory hashes the per-frame player state.
type trajectory struct {
	h   hash.Hash64
	buf [8]byte
}

func newTrajectory() *trajectory {
	return &trajectory{h: fnv.New64a()}
}

func (t *trajectory) add(p *entity.Player, score int) {
	for _, v := range []float64{p.X, p.Y, p.VelocityY, float64(score)} {
		binary.LittleEndian.PutUint64(t.buf[:], math.Float64bits(v))
		t.h.Write(t.buf[:]) //nolint:errcheck // hash writes never fail
	}
}

func (t *trajectory) sum() uint64 {
	return t.h.Sum64()
}
