package scripting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Manager owns the sandboxed VM that runs spell hooks.
//
// All methods are safe for concurrent use; calls into the VM are serialized.
type Manager struct {
	mu     sync.Mutex
	L      *lua.LState
	limit  int
	logger *zap.Logger
}

// NewManager creates a Manager with no scripts loaded.
//
// Precondition: logger must be non-nil.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{logger: logger}
}

// Load creates a fresh VM, registers the engine modules, then executes every
// *.lua file in scriptDir in lexicographic order. A previously loaded VM is
// replaced only when every file loads.
//
// Precondition: scriptDir must be a readable directory; instLimit >= 0.
// Postcondition: Returns the number of files loaded, or an error.
func (m *Manager) Load(scriptDir string, instLimit int) (int, error) {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return 0, fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			files = append(files, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(files)

	L := NewSandboxedState()
	m.registerModules(L)
	for _, path := range files {
		release := WithInstructionLimit(L, instLimit)
		err := L.DoFile(path)
		release()
		if err != nil {
			L.Close()
			return 0, fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.L != nil {
		m.L.Close()
	}
	m.L = L
	m.limit = instLimit
	return len(files), nil
}

// CallHook calls the named Lua global function. Returns (LNil, nil) when no
// scripts are loaded or the hook is not defined. Lua runtime errors,
// including an exhausted instruction budget, are logged at Warn level and
// never propagated.
//
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callLocked(hook, args...), nil
}

// ResolveHeal calls hook with a caster table {health, mana, heal_amount}
// and returns its numeric result clamped to [0, 1].
//
// Postcondition: Returns base when the hook is missing, fails, or does not
// return a finite number.
func (m *Manager) ResolveHeal(hook string, health, mana, base float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.L == nil {
		return base
	}
	caster := m.L.NewTable()
	m.L.SetField(caster, "health", lua.LNumber(health))
	m.L.SetField(caster, "mana", lua.LNumber(mana))
	m.L.SetField(caster, "heal_amount", lua.LNumber(base))

	ret := m.callLocked(hook, caster)
	n, ok := ret.(lua.LNumber)
	if !ok {
		if ret != lua.LNil {
			m.logger.Warn("scripting: heal hook returned non-number",
				zap.String("hook", hook),
				zap.String("type", ret.Type().String()),
			)
		}
		return base
	}
	v := float64(n)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return base
	}
	return math.Max(0, math.Min(1, v))
}

// Close releases the VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.L != nil {
		m.L.Close()
		m.L = nil
	}
}

// callLocked runs hook under a fresh instruction budget. Caller must hold m.mu.
func (m *Manager) callLocked(hook string, args ...lua.LValue) lua.LValue {
	if m.L == nil {
		m.logger.Info("scripting: no scripts loaded", zap.String("hook", hook))
		return lua.LNil
	}
	fn, ok := m.L.GetGlobal(hook).(*lua.LFunction)
	if !ok {
		return lua.LNil
	}
	release := WithInstructionLimit(m.L, m.limit)
	defer release()
	if err := m.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil
	}
	ret := m.L.Get(-1)
	m.L.Pop(1)
	return ret
}
