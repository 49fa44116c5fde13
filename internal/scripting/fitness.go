package scripting

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/armor-optimizer/internal/armor"
	"github.com/cory-johannsen/armor-optimizer/internal/fitness"
)

// fitnessGlobal is the function name a full script must define.
const fitnessGlobal = "fitness"

// statLocals binds every stat to a local of the same name so a bare
// expression such as "physical * 0.5 + holy" can reference them directly.
const statLocals = `local weight, poise = item.weight, item.poise
local physical, strike, slash, pierce = item.physical, item.strike, item.slash, item.pierce
local magic, fire, lightning, holy = item.magic, item.fire, item.lightning, item.holy
local scarlet_rot, poison, hemorrhage = item.scarlet_rot, item.poison, item.hemorrhage
local frostbite, sleep, madness, death_blight = item.frostbite, item.sleep, item.madness, item.death_blight
`

// Script is a compiled Lua fitness criterion.
//
// A Script owns a single LState and is not safe for concurrent use.
type Script struct {
	L        *lua.LState
	fn       *lua.LFunction
	limit    int
	failures int
}

// Compile loads src into a fresh sandbox. src is either a chunk defining
// `function fitness(item) ... end` or a bare Lua expression over the stat names
// (weight, poise, physical, ..., death_blight).
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: Returns a ready Script or a non-nil error; the caller must Close the Script.
func Compile(src string, instLimit int) (*Script, error) {
	if strings.TrimSpace(src) == "" {
		return nil, errors.New("scripting: fitness script is empty")
	}
	chunk := src
	if !strings.Contains(src, "function "+fitnessGlobal) {
		chunk = "function " + fitnessGlobal + "(item)\n" + statLocals + "return (" + src + ")\nend\n"
	}

	L := NewSandboxedState(instLimit)
	if err := L.DoString(chunk); err != nil {
		L.Close()
		return nil, fmt.Errorf("scripting: compiling fitness script: %w", err)
	}
	L.RemoveContext()

	fn, ok := L.GetGlobal(fitnessGlobal).(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, fmt.Errorf("scripting: fitness script does not define function %s(item)", fitnessGlobal)
	}
	return &Script{L: L, fn: fn, limit: effectiveLimit(instLimit)}, nil
}

// CompileFor compiles src only when mode is fitness.Custom. For any other mode
// it returns a nil Script, whose Func is nil so the built-in criterion applies.
func CompileFor(mode fitness.Mode, src string, instLimit int) (*Script, error) {
	if mode != fitness.Custom {
		return nil, nil
	}
	return Compile(src, instLimit)
}

// ResolveSource returns the contents of s when it names a readable .lua file,
// and s itself otherwise.
func ResolveSource(s string) (string, error) {
	if filepath.Ext(s) != ".lua" {
		return s, nil
	}
	data, err := os.ReadFile(s)
	if err != nil {
		return "", fmt.Errorf("scripting: reading fitness script %q: %w", s, err)
	}
	return string(data), nil
}

// Score evaluates the script for a. A runtime error, an exceeded instruction
// limit, or a non-finite or non-numeric result yields fitness.Sentinel.
func (s *Script) Score(a *armor.Armor) float64 {
	ctx, cancel := newCountingContext(s.limit)
	defer cancel()
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	if err := s.L.CallByParam(lua.P{
		Fn:      s.fn,
		NRet:    1,
		Protect: true,
	}, itemTable(s.L, a)); err != nil {
		s.L.SetTop(0)
		s.failures++
		return fitness.Sentinel
	}

	ret := s.L.Get(-1)
	s.L.Pop(1)
	n, ok := ret.(lua.LNumber)
	if !ok || math.IsNaN(float64(n)) || math.IsInf(float64(n), 0) {
		s.failures++
		return fitness.Sentinel
	}
	return float64(n)
}

// Func adapts s to a fitness.Func. A nil Script yields a nil Func.
func (s *Script) Func() fitness.Func {
	if s == nil {
		return nil
	}
	return s.Score
}

// Failures returns how many evaluations fell back to fitness.Sentinel.
func (s *Script) Failures() int {
	if s == nil {
		return 0
	}
	return s.failures
}

// Close releases the underlying LState. It is a no-op on a nil Script.
func (s *Script) Close() {
	if s == nil {
		return
	}
	s.L.Close()
}

func itemTable(L *lua.LState, a *armor.Armor) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("id", lua.LString(a.ID))
	t.RawSetString("name", lua.LString(a.Name))
	t.RawSetString("slot", lua.LString(a.Slot))
	t.RawSetString("weight", lua.LNumber(a.Weight))
	t.RawSetString("poise", lua.LNumber(a.Poise))

	d := a.Defenses
	t.RawSetString("physical", lua.LNumber(d.Physical))
	t.RawSetString("strike", lua.LNumber(d.Strike))
	t.RawSetString("slash", lua.LNumber(d.Slash))
	t.RawSetString("pierce", lua.LNumber(d.Pierce))
	t.RawSetString("magic", lua.LNumber(d.Magic))
	t.RawSetString("fire", lua.LNumber(d.Fire))
	t.RawSetString("lightning", lua.LNumber(d.Lightning))
	t.RawSetString("holy", lua.LNumber(d.Holy))

	r := a.Resistances
	t.RawSetString("scarlet_rot", lua.LNumber(r.ScarletRot))
	t.RawSetString("poison", lua.LNumber(r.Poison))
	t.RawSetString("hemorrhage", lua.LNumber(r.Hemorrhage))
	t.RawSetString("frostbite", lua.LNumber(r.Frostbite))
	t.RawSetString("sleep", lua.LNumber(r.Sleep))
	t.RawSetString("madness", lua.LNumber(r.Madness))
	t.RawSetString("death_blight", lua.LNumber(r.DeathBlight))
	return t
}
