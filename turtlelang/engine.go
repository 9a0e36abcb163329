package turtlelang

import "strings"

// Engine is the compile-time half of the execution engine: it owns the
// chunk store and replays the exact same push/pop/frame choreography
// the runtime will later perform, but over value-less placeholders,
// purely to compute each name's offset ahead of time. There is no
// separate "link" step -- a chunk's Actions are fully runnable the
// moment its closing brace is parsed.
type Engine struct {
	Chunks *ChunkStore
	Names  *NameTable

	simLocals   *FrameStack[struct{}]
	simCaptures *FrameStack[struct{}]

	build []buildFrame
}

type buildFrame struct {
	chunk              *Chunk
	isCallFrame        bool
	startLocalsSize    int
	startCapturesSize int
}

func NewEngine() *Engine {
	e := &Engine{
		Chunks:      NewChunkStore(),
		Names:       NewNameTable(),
		simLocals:   NewFrameStack[struct{}](),
		simCaptures: NewFrameStack[struct{}](),
	}
	for i, b := range builtinTable {
		idx := e.Chunks.NewCallFrameChunk(b.name)
		c := e.Chunks.Get(idx)
		c.IsBuiltin = i
		c.ParamsSize = b.arity
		e.Names.DefineBuiltin(&NameDefinition{
			Text: b.name, Kind: KindFunction, ChunkIndex: idx,
			Size: 1, ParamNames: make([]string, b.arity),
			Signature: strings.Repeat("v", b.arity),
		})
	}
	return e
}

func (e *Engine) current() *Chunk {
	return e.build[len(e.build)-1].chunk
}

// BeginCallFrameChunk opens a new function chunk and its matching
// parse-time frame.
func (e *Engine) BeginCallFrameChunk(name string) int {
	idx := e.Chunks.NewCallFrameChunk(name)
	e.simLocals.PushFrame(0, 0)
	e.simCaptures.PushEmptyFrame()
	e.build = append(e.build, buildFrame{chunk: e.Chunks.Get(idx), isCallFrame: true})
	return idx
}

// AddParam reserves one parameter slot in the chunk currently being
// built and returns its local offset.
func (e *Engine) AddParam() int {
	offset := e.simLocals.FrameSize()
	e.simLocals.Push(struct{}{})
	e.current().ParamsSize++
	return offset
}

// EndCallFrameChunk closes the function chunk under construction.
func (e *Engine) EndCallFrameChunk(hasClosure bool, numCaptures int) {
	c := e.current()
	c.HasClosure = hasClosure
	c.NumCaptures = numCaptures
	e.simLocals.PopFrame()
	e.simCaptures.PopFrame()
	e.build = e.build[:len(e.build)-1]
}

// BeginLocalBlockChunk opens a new brace-delimited block that shares
// its enclosing frame (no push_frame at runtime): an if arm, a for
// body, or a bare grouping block.
func (e *Engine) BeginLocalBlockChunk(name string) int {
	idx := e.Chunks.NewLocalBlockChunk(name)
	bf := buildFrame{
		chunk:              e.Chunks.Get(idx),
		startLocalsSize:    e.simLocals.FrameSize(),
		startCapturesSize: e.simCaptures.FrameSize(),
	}
	e.build = append(e.build, bf)
	return idx
}

// EndLocalBlockChunk closes the block, recording how many locals and
// captures slots it grew by so the runtime can unwind them.
func (e *Engine) EndLocalBlockChunk() {
	top := e.build[len(e.build)-1]
	top.chunk.UnwindLocals = e.simLocals.FrameSize() - top.startLocalsSize
	top.chunk.UnwindCaptures = e.simCaptures.FrameSize() - top.startCapturesSize
	e.build = e.build[:len(e.build)-1]
}

// AddLocal reserves one local slot in the current frame, returning its offset.
func (e *Engine) AddLocal() int {
	offset := e.simLocals.FrameSize()
	e.simLocals.Push(struct{}{})
	return offset
}

// RemoveLocals discards the most recently reserved n local slots
// (used to retract a for-loop's synthetic variable once its body has
// been fully parsed).
func (e *Engine) RemoveLocals(n int) {
	e.simLocals.Pop(n)
}

// AddCapture reserves one slot in the capture list being assembled for
// the function currently under construction, returning its position
// within that list (0-based).
func (e *Engine) AddCapture() int {
	offset := e.simCaptures.FrameSize()
	e.simCaptures.Push(struct{}{})
	return offset
}

// LocalFrameSize returns how many locals are reserved so far in the
// frame currently being built.
func (e *Engine) LocalFrameSize() int { return e.simLocals.FrameSize() }

// Append adds one compiled statement to the chunk currently being built.
func (e *Engine) Append(line, col int, label string, action Statement) {
	e.current().Append(line, col, label, action)
}

// Depth returns the function-nesting depth currently being parsed.
func (e *Engine) Depth() int { return e.Names.Depth() }
