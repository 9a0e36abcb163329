package turtlelang

// Runtime is the live dual-stack machine: two FrameStack[float64]
// instances (locals and captures), the chunk store compiled ahead of
// time, the turtle host commands act against, and an optional debug
// cursor. A fresh Runtime is built once per execute_main call; S1-S6
// style re-runs each get their own Runtime so stacks always start
// empty.
type Runtime struct {
	Locals   *FrameStack[float64]
	Captures *FrameStack[float64]
	Host     TurtleHost
	Store    *ChunkStore
	Cursor   *DebugCursor

	unique int
}

func NewRuntime(store *ChunkStore, host TurtleHost, cursor *DebugCursor) *Runtime {
	return &Runtime{
		Locals:   NewFrameStack[float64](),
		Captures: NewFrameStack[float64](),
		Host:     host,
		Store:    store,
		Cursor:   cursor,
	}
}

// NextUnique returns the next value in a monotonically increasing
// sequence starting at 1, reset for each Runtime (i.e. each
// execute_main call).
func (rt *Runtime) NextUnique() float64 {
	rt.unique++
	return float64(rt.unique)
}

// ReadCapture reads one of the current call frame's captured values.
// Captures are addressed indirectly: locals[-1] holds the absolute
// position on the captures stack where this frame's capture list
// begins.
func (rt *Runtime) ReadCapture(offset int) float64 {
	base := int(rt.Locals.At(-1))
	return rt.Captures.ReadGlobal(base + offset)
}

// ExecuteMain runs the top-level program chunk to completion.
func (rt *Runtime) ExecuteMain(mainChunk int) error {
	return rt.CallChunk(mainChunk, 0)
}

// CallChunk invokes a user-defined function chunk: pushes a new locals
// frame reclaiming the argsSize values already on top of the stack, a
// fresh (empty) captures frame for any closures built while evaluating
// nested calls inside the body, runs every statement in order, then
// unwinds both frames regardless of outcome.
func (rt *Runtime) CallChunk(idx int, argsSize int) error {
	chunk := rt.Store.Get(idx)
	chunk.CallCount++

	if chunk.Kind == CallFrameChunk && chunk.IsBuiltin >= 0 {
		args := make([]float64, argsSize)
		for i := argsSize - 1; i >= 0; i-- {
			args[i] = rt.Locals.At(rt.Locals.FrameSize() - argsSize + i)
		}
		rt.Locals.Pop(argsSize)
		return builtinTable[chunk.IsBuiltin].invoke(rt.Host, args)
	}

	if err := rt.Locals.PushFrame(argsSize, chunk.ParamsSize); err != nil {
		return err
	}
	if err := rt.Captures.PushEmptyFrame(); err != nil {
		rt.Locals.PopFrame()
		return err
	}
	if rt.Cursor != nil {
		rt.Cursor.PushChunk(idx)
	}

	var callErr error
	for i, action := range chunk.Actions {
		if rt.Cursor != nil {
			rt.Cursor.SetStatement(i)
			if err := rt.Cursor.MaybeBreak(chunk, i); err != nil {
				callErr = err
				break
			}
		}
		if err := action(rt); err != nil {
			callErr = err
			break
		}
	}

	if rt.Cursor != nil {
		rt.Cursor.PopChunk()
	}
	rt.Captures.PopFrame()
	rt.Locals.PopFrame()
	return callErr
}

// ExecLocalBlock runs a brace-delimited block's statements in place
// (no new frame) and then unwinds exactly the locals/captures it
// declared.
func (rt *Runtime) ExecLocalBlock(idx int) error {
	chunk := rt.Store.Get(idx)
	if rt.Cursor != nil {
		rt.Cursor.PushChunk(idx)
	}

	var callErr error
	for i, action := range chunk.Actions {
		if rt.Cursor != nil {
			rt.Cursor.SetStatement(i)
			if err := rt.Cursor.MaybeBreak(chunk, i); err != nil {
				callErr = err
				break
			}
		}
		if err := action(rt); err != nil {
			callErr = err
			break
		}
	}

	if rt.Cursor != nil {
		rt.Cursor.PopChunk()
	}
	rt.Locals.Pop(chunk.UnwindLocals)
	rt.Captures.Pop(chunk.UnwindCaptures)
	return callErr
}

// PushClosurePos pushes the absolute captures-stack position a call's
// callee should see at locals[-1]. Every non-builtin call pushes one
// of these immediately before its argument values, whether or not the
// callee actually has any captures to read -- keeping the calling
// convention uniform means a lambda parameter can be called without
// knowing in advance whether the function bound to it closed over
// anything.
func (rt *Runtime) PushClosurePos(pos float64) error {
	return rt.Locals.Push(pos)
}
