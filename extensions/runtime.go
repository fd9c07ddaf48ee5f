package extensions

import (
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Shopify/go-lua"
	"github.com/Shopify/goluago/util"
	"github.com/tfkr-ae/ptatemp/domain"
	"github.com/tfkr-ae/ptatemp/scope"
)

// EngineService defines the engine functionality available to extensions.
// The root engine satisfies this interface; tests substitute mocks.
type EngineService interface {
	GetConfigDir() (string, error)
	GetScope() (*scope.Scope, error)
	GetJournal() (string, error)
	GetBalance(account string) (int64, error)
	Currency() string
	WriteLog(level string, message string, options ...func(log *domain.Log) error) error
	GetExtensionRepo() (domain.ExtensionRepository, error)
	GetTemplateRepo() (domain.TemplateRepository, error)
	GetRecordRepo() (domain.RecordRepository, error)
}

// ExtensionLog is a single line of output captured from an extension's
// redirected print function.
type ExtensionLog struct {
	Time time.Time
	Text string
}

// Runtime wraps a Lua state prepared for a single extension. The state is not
// safe for concurrent use; Mu guards calls made outside the loading goroutine.
type Runtime struct {
	Data     *domain.Extension
	LuaState *lua.State
	Mu       sync.Mutex
	Logs     []ExtensionLog
	OnLog    func(entry ExtensionLog) error

	// filters maps filter names registered by the extension to their
	// Lua registry keys.
	filters            map[string]string
	hasTransactionHook bool
}

// ExtensionWithLogHandler sets the handler invoked for every captured print
// line. The handler can only be set once.
func ExtensionWithLogHandler(handler func(entry ExtensionLog) error) func(runtime *Runtime) error {
	return func(runtime *Runtime) error {
		if runtime.OnLog != nil {
			return fmt.Errorf("extension already has a log handler")
		}
		runtime.OnLog = handler
		return nil
	}
}

// openSandboxedLibraries loads the base, math, table, and bit32 libraries into
// the state and removes the base globals that reach the filesystem or the
// chunk loader. Extensions get no os, io, or require.
func openSandboxedLibraries(l *lua.State) {
	libraries := []lua.RegistryFunction{
		{Name: "_G", Function: lua.BaseOpen},
		{Name: "math", Function: lua.MathOpen},
		{Name: "table", Function: lua.TableOpen},
		{Name: "bit32", Function: lua.Bit32Open},
	}
	for _, library := range libraries {
		lua.Require(l, library.Name, library.Function, true)
		l.Pop(1)
	}

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "collectgarbage"} {
		l.PushNil()
		l.SetGlobal(name)
	}
}

// PrepareState creates a fresh Lua state for the extension, registers the
// ptatemp library and types, and executes the extension's source. After it
// returns, any filters and hooks declared by the script are available through
// the runtime.
func (runtime *Runtime) PrepareState(service EngineService, options []func(runtime *Runtime) error) error {
	l := lua.NewState()
	openSandboxedLibraries(l)

	runtime.LuaState = l
	runtime.filters = make(map[string]string)

	for _, option := range options {
		if err := option(runtime); err != nil {
			return fmt.Errorf("applying runtime option : %w", err)
		}
	}

	if runtime.OnLog == nil {
		runtime.OnLog = func(entry ExtensionLog) error { return nil }
	}

	l.PushString(runtime.Data.ID.String())
	l.SetField(lua.RegistryIndex, extensionIDRegistryKey)

	RegisterScopeType(runtime)
	RegisterRegexType(runtime)
	RegisterPostingType(runtime)
	RegisterTransactionType(runtime)

	registerPtatempLibrary(l, service, runtime)
	RegisterCustomPrint(runtime)

	if err := lua.DoString(l, runtime.Data.LuaContent); err != nil {
		return fmt.Errorf("loading extension %s : %w", runtime.Data.Name, err)
	}

	l.Global("on_transaction")
	runtime.hasTransactionHook = l.IsFunction(-1)
	l.Pop(1)

	return nil
}

// ExecuteLua runs a chunk of Lua code in the extension's state.
func (runtime *Runtime) ExecuteLua(code string) error {
	return lua.DoString(runtime.LuaState, code)
}

// Filters returns the sorted names of filters the extension registered.
func (runtime *Runtime) Filters() []string {
	names := make([]string, 0, len(runtime.filters))
	for name := range runtime.filters {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// CallFilter invokes a registered filter with a value and an optional
// parameter and returns the filter's result converted to a Go value.
func (runtime *Runtime) CallFilter(name string, value any, param any) (any, error) {
	runtime.Mu.Lock()
	defer runtime.Mu.Unlock()

	registryKey, ok := runtime.filters[name]
	if !ok {
		return nil, fmt.Errorf("filter %s is not registered by extension %s", name, runtime.Data.Name)
	}

	l := runtime.LuaState
	l.Field(lua.RegistryIndex, registryKey)
	if !l.IsFunction(-1) {
		l.Pop(1)
		return nil, fmt.Errorf("filter %s is no longer a function", name)
	}

	pushValue(l, value)
	pushValue(l, param)

	if err := l.ProtectedCall(2, 1, 0); err != nil {
		return nil, fmt.Errorf("calling filter %s : %w", name, err)
	}

	result := goValue(l, -1)
	l.Pop(1)
	return result, nil
}

// HasTransactionHook reports whether the extension declared an
// on_transaction function.
func (runtime *Runtime) HasTransactionHook() bool {
	return runtime.hasTransactionHook
}

// CallTransactionHook passes a transaction to the extension's on_transaction
// function. The hook can mutate the transaction's postings before the entry
// is balanced.
func (runtime *Runtime) CallTransactionHook(transaction *domain.Transaction) error {
	if !runtime.hasTransactionHook {
		return nil
	}

	runtime.Mu.Lock()
	defer runtime.Mu.Unlock()

	l := runtime.LuaState
	l.Global("on_transaction")
	if !l.IsFunction(-1) {
		l.Pop(1)
		return nil
	}

	l.PushUserData(transaction)
	lua.SetMetaTableNamed(l, "transaction")

	if err := l.ProtectedCall(1, 0, 0); err != nil {
		return fmt.Errorf("calling on_transaction for %s : %w", runtime.Data.Name, err)
	}

	return nil
}

// pushValue pushes a Go value onto the Lua stack, tolerating nil.
func pushValue(l *lua.State, value any) {
	if value == nil {
		l.PushNil()
		return
	}
	util.DeepPush(l, value)
}

// RegisterCustomPrint overrides the default Lua `print` function.
// The new function captures the output and sends it to the extension's log.
func RegisterCustomPrint(runtime *Runtime) {
	printFunc := func(l *lua.State) int {
		n := l.Top()
		parts := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			if l.IsString(i) {
				parts = append(parts, lua.CheckString(l, i))
			} else if l.IsUserData(i) {
				if str, ok := lua.ToStringMeta(l, i); ok {
					parts = append(parts, str)
				} else {
					parts = append(parts, fmt.Sprintf("%v", l.ToUserData(i)))
				}
			} else {
				parts = append(parts, fmt.Sprintf("%v", goValue(l, i)))
			}
		}
		message := strings.Join(parts, "\t")
		logEntry := ExtensionLog{Time: time.Now(), Text: message}
		runtime.Logs = append(runtime.Logs, logEntry)
		err := runtime.OnLog(logEntry)
		if err != nil {
			log.Print(err)
		}
		return 0
	}
	runtime.LuaState.Register("print", printFunc)
}
