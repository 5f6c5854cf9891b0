package script

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/setlist/internal/engine"
	"github.com/dshills/setlist/internal/setlist"
)

// DefaultTimeout bounds a single Run.
const DefaultTimeout = 5 * time.Second

// Editor is the document surface exposed to scripts. app.Session
// implements it.
type Editor interface {
	AddSet() string
	RemoveSet(setID string)
	RenameSet(setID, name string)
	AddSongToSet(setID string, in engine.SongInput) string
	RemoveSongFromSet(setID, songID string)
	ReorderSong(setID string, fromIndex, toIndex int)
	MoveSong(fromSetID, toSetID string, fromIndex, toIndex int)
	UpdateSong(setID, songID string, patch engine.SongPatch)
	UpdateMetadata(patch engine.MetadataPatch)
	Undo() error
	Redo() error
	IsDirty() bool
	Document() setlist.Document
	HasEncoreMarker(setID string) bool
	DisplayName(setID string) string
}

// Host executes scripts against an Editor. Runs are serialized.
type Host struct {
	editor  Editor
	out     io.Writer
	timeout time.Duration
	logger  *slog.Logger

	mu sync.Mutex
}

// Option configures a Host.
type Option func(*Host)

// WithOutput sets where print writes. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(h *Host) {
		if w != nil {
			h.out = w
		}
	}
}

// WithTimeout sets the per-run time budget. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(h *Host) {
		h.timeout = d
	}
}

// WithLogger sets the host logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHost creates a host bound to editor.
func NewHost(editor Editor, opts ...Option) *Host {
	h := &Host{
		editor:  editor,
		out:     os.Stdout,
		timeout: DefaultTimeout,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With("component", "script")
	return h
}

// RunFile reads and runs a script file.
func (h *Host) RunFile(ctx context.Context, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading script: %w", err)
	}
	return h.Run(ctx, path, string(src))
}

// Run executes src in a fresh sandboxed interpreter. name labels errors.
func (h *Host) Run(ctx context.Context, name, src string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	L := newState(h.out)
	defer L.Close()
	L.SetContext(ctx)
	L.SetGlobal("setlist", newModule(L, h.editor))

	start := time.Now()
	err := doWithRecovery(func() error {
		fn, err := L.Load(strings.NewReader(src), name)
		if err != nil {
			return err
		}
		L.Push(fn)
		return L.PCall(0, lua.MultRet, nil)
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %s: %w", ErrTimeout, name, ctxErr)
		}
		h.logger.Warn("script failed", "script", name, "error", err)
		return fmt.Errorf("%w: %w", ErrScript, err)
	}

	h.logger.Debug("script finished", "script", name, "elapsed", time.Since(start))
	return nil
}

// doWithRecovery executes a function with panic recovery.
func doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// newState creates an interpreter with only the safe standard libraries.
func newState(out io.Writer) *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	// Remove functions that reach the filesystem or compile new chunks.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, L.GetTop())
		for i := range parts {
			parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
		}
		fmt.Fprintln(out, strings.Join(parts, "\t"))
		return 0
	}))
	return L
}
