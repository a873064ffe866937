package nodegl

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/gogpu/nodegl/glcontext"
	"github.com/gogpu/nodegl/internal/mat4"
)

// State is the lifecycle state of a node.
type State int

// Lifecycle states, in order.
const (
	StateUninitialized State = iota
	StateInitialized
	StatePrefetched
	StateUpdated
	StateDrawn
	StateReleased
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StatePrefetched:
		return "prefetched"
	case StateUpdated:
		return "updated"
	case StateDrawn:
		return "drawn"
	case StateReleased:
		return "released"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ParamKind is the type of a node parameter.
type ParamKind int

// Parameter kinds.
const (
	ParamNode ParamKind = iota
	ParamNodeList
	ParamInt
	ParamFloat
	ParamVec2
	ParamVec3
	ParamVec4
	ParamMat4
	ParamBool
	ParamString
	ParamFormat
	ParamFilter
	ParamWrap
	ParamWriter
	ParamSource
	ParamKeyFrames
)

var paramKindNames = [...]string{
	ParamNode:      "node",
	ParamNodeList:  "node_list",
	ParamInt:       "int",
	ParamFloat:     "float",
	ParamVec2:      "vec2",
	ParamVec3:      "vec3",
	ParamVec4:      "vec4",
	ParamMat4:      "mat4",
	ParamBool:      "bool",
	ParamString:    "string",
	ParamFormat:    "format",
	ParamFilter:    "filter",
	ParamWrap:      "wrap",
	ParamWriter:    "writer",
	ParamSource:    "source",
	ParamKeyFrames: "keyframes",
}

func (k ParamKind) String() string {
	if k >= 0 && int(k) < len(paramKindNames) {
		return paramKindNames[k]
	}
	return fmt.Sprintf("ParamKind(%d)", int(k))
}

// ParamSpec documents one parameter of a node class.
type ParamSpec struct {
	Name    string
	Kind    ParamKind
	Default any
	// Constructor marks parameters passed to the node constructor.
	Constructor bool
	Doc         string
}

// Class describes a node type.
type Class struct {
	ID     uint32
	Name   string
	Params []ParamSpec
}

func (c *Class) String() string { return c.Name }

func fourcc(s string) uint32 {
	return uint32(s[0])<<24 | uint32(s[1])<<16 | uint32(s[2])<<8 | uint32(s[3])
}

var (
	classesMu sync.Mutex
	classes   = make(map[string]*Class)
)

func registerClass(c *Class) *Class {
	classesMu.Lock()
	defer classesMu.Unlock()
	if _, dup := classes[c.Name]; dup {
		panic("nodegl: duplicate node class " + c.Name)
	}
	classes[c.Name] = c
	return c
}

// Classes returns every node class sorted by name.
func Classes() []*Class {
	classesMu.Lock()
	defer classesMu.Unlock()
	out := make([]*Class, 0, len(classes))
	for _, c := range classes {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b *Class) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

// Impl is the type-specific part of a node. An Impl may implement any
// subset of Initializer, Prefetcher, Updater, Drawer, Releaser,
// Uninitializer and Childer; absent operations are no-ops.
type Impl interface {
	Class() *Class
}

// Initializer validates parameters and sets up CPU state.
type Initializer interface {
	Init(n *Node) error
}

// Prefetcher acquires GPU resources. On failure it must leave no GPU
// object behind; Release is called anyway.
type Prefetcher interface {
	Prefetch(n *Node) error
}

// Updater recomputes time dependent state and updates children.
type Updater interface {
	Update(n *Node, t float64) error
}

// Drawer issues GPU commands. It restores any GPU state it changes.
type Drawer interface {
	Draw(n *Node) error
}

// Releaser frees what Prefetch acquired. It must tolerate a partial or
// missing Prefetch.
type Releaser interface {
	Release(n *Node)
}

// Uninitializer frees what Init acquired.
type Uninitializer interface {
	Uninit(n *Node)
}

// Childer lists the nodes an Impl references. They are attached,
// visited and prefetched together with it.
type Childer interface {
	Children() []*Node
}

// Node is a vertex of the scene graph.
//
// Nodes are reference counted: NewNode returns a node holding one
// reference and takes a reference on each child. Lifecycle calls must
// all happen on the goroutine owning the GL context.
type Node struct {
	impl  Impl
	label string

	refs    int
	ctx     *Context
	ctxRefs int
	state   State

	pass       uint64
	honored    uint64
	active     bool
	updatePass uint64
	lastUpdate float64
	// failed is set by a failed prefetch and cleared by a successful one
	// or by Uninit. Repeated failures are logged at debug level.
	failed bool

	// Modelview and Projection are written by ancestors during update and
	// read by descendants.
	Modelview  mat4.Mat4
	Projection mat4.Mat4
}

// NewNode wraps impl in a node.
func NewNode(impl Impl) *Node {
	n := &Node{
		impl:       impl,
		refs:       1,
		Modelview:  mat4.Identity(),
		Projection: mat4.Identity(),
	}
	for _, c := range n.children() {
		c.Ref()
	}
	return n
}

// Impl returns the type-specific part of n.
func (n *Node) Impl() Impl { return n.impl }

// Class returns the node class.
func (n *Node) Class() *Class { return n.impl.Class() }

// State returns the lifecycle state.
func (n *Node) State() State { return n.state }

// Context returns the context n is attached to, or nil.
func (n *Node) Context() *Context { return n.ctx }

// SetLabel names n in logs and errors.
func (n *Node) SetLabel(label string) *Node {
	n.label = label
	return n
}

func (n *Node) String() string {
	if n.label != "" {
		return n.Class().Name + "(" + n.label + ")"
	}
	return n.Class().Name
}

// Refs returns the reference count.
func (n *Node) Refs() int { return n.refs }

// Ref takes a reference on n.
func (n *Node) Ref() *Node {
	n.refs++
	return n
}

// Unref drops a reference. When the last one goes, n is detached from its
// context and drops its references on its children.
func (n *Node) Unref() {
	if n.refs <= 0 {
		return
	}
	n.refs--
	if n.refs > 0 {
		return
	}
	if n.ctx != nil {
		n.ctxRefs = 1
		n.DetachContext()
	}
	for _, c := range n.children() {
		c.Unref()
	}
}

func (n *Node) children() []*Node {
	ch, ok := n.impl.(Childer)
	if !ok {
		return nil
	}
	list := ch.Children()
	out := list[:0:0]
	for _, c := range list {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Children returns the non-nil children of n.
func (n *Node) Children() []*Node { return n.children() }

func (n *Node) logger() *slog.Logger {
	if n.ctx != nil {
		return n.ctx.logger
	}
	return Logger()
}

func (n *Node) gl() *glcontext.Context { return n.ctx.gl }

func (n *Node) ready() bool {
	return n.state == StatePrefetched || n.state == StateUpdated || n.state == StateDrawn
}

// AttachContext attaches n and its children to ctx and initializes them.
// A node reached through several edges is initialized once and counts
// each attachment. On failure nothing stays attached.
func (n *Node) AttachContext(ctx *Context) error {
	if n.ctx != nil {
		if n.ctx != ctx {
			return &StateError{Node: n.String(), Op: "attach to a second context", State: n.state}
		}
		n.ctxRefs++
		return nil
	}

	n.ctx = ctx
	n.ctxRefs = 1
	var attached []*Node
	rollback := func() {
		for i := len(attached) - 1; i >= 0; i-- {
			attached[i].DetachContext()
		}
		n.ctx = nil
		n.ctxRefs = 0
	}
	for _, c := range n.children() {
		if err := c.AttachContext(ctx); err != nil {
			rollback()
			return err
		}
		attached = append(attached, c)
	}
	if err := n.init(); err != nil {
		rollback()
		return err
	}
	return nil
}

// DetachContext undoes one AttachContext. The last detach releases and
// uninitializes n, then detaches its children.
func (n *Node) DetachContext() {
	if n.ctx == nil {
		return
	}
	n.ctxRefs--
	if n.ctxRefs > 0 {
		return
	}
	n.Uninit()
	for _, c := range n.children() {
		c.DetachContext()
	}
	n.ctx = nil
	n.ctxRefs = 0
}

func (n *Node) init() error {
	if n.state != StateUninitialized {
		return nil
	}
	if i, ok := n.impl.(Initializer); ok {
		if err := i.Init(n); err != nil {
			n.logger().Error("nodegl: init failed", "node", n.String(), "err", err)
			return err
		}
	}
	n.state = StateInitialized
	return nil
}

// Visit marks n and everything reachable from it as active or inactive for
// a new pass at time t. A node reached by an active path stays active
// whatever other paths say.
func (n *Node) Visit(isActive bool, t float64) error {
	if n.ctx == nil {
		return &StateError{Node: n.String(), Op: "visit", State: n.state}
	}
	n.ctx.visits++
	n.visit(n.ctx.visits, isActive, t)
	return nil
}

func (n *Node) visit(pass uint64, isActive bool, t float64) {
	if n.pass == pass && (n.active || !isActive) {
		return
	}
	n.pass = pass
	n.active = isActive
	for _, c := range n.children() {
		c.visit(pass, isActive, t)
	}
}

// HonorReleasePrefetch applies the last visit of n: active nodes that are
// not ready are prefetched, children first; inactive ready nodes are
// released, parents first. Each node is handled once per pass.
func (n *Node) HonorReleasePrefetch() error {
	if n.ctx == nil {
		return &StateError{Node: n.String(), Op: "prefetch", State: n.state}
	}
	return n.honor(n.pass)
}

func (n *Node) honor(pass uint64) error {
	if n.honored == pass {
		return nil
	}
	n.honored = pass
	if !n.active {
		n.Release()
		for _, c := range n.children() {
			if err := c.honor(pass); err != nil {
				return err
			}
		}
		return nil
	}
	for _, c := range n.children() {
		if err := c.honor(pass); err != nil {
			return err
		}
	}
	if n.ready() {
		return nil
	}
	return n.prefetch()
}

func (n *Node) prefetch() error {
	if n.state == StateUninitialized {
		return &StateError{Node: n.String(), Op: "prefetch", State: n.state}
	}
	if p, ok := n.impl.(Prefetcher); ok {
		if err := p.Prefetch(n); err != nil {
			if n.failed {
				n.logger().Debug("nodegl: prefetch failed again", "node", n.String(), "err", err)
			} else {
				n.logger().Error("nodegl: prefetch failed", "node", n.String(), "err", err)
			}
			n.failed = true
			if r, ok := n.impl.(Releaser); ok {
				r.Release(n)
			}
			return err
		}
	}
	n.failed = false
	n.state = StatePrefetched
	return nil
}

// Update runs the update operation of n for time t. It is a no-op when n
// was already updated for t in the current pass.
func (n *Node) Update(t float64) error {
	if !n.ready() {
		return &StateError{Node: n.String(), Op: "update", State: n.state}
	}
	if n.updatePass == n.pass && n.lastUpdate == t && n.state != StatePrefetched {
		return nil
	}
	if u, ok := n.impl.(Updater); ok {
		if err := u.Update(n, t); err != nil {
			return err
		}
	}
	n.updatePass = n.pass
	n.lastUpdate = t
	n.state = StateUpdated
	return nil
}

// Draw runs the draw operation of n.
func (n *Node) Draw() error {
	if !n.ready() {
		return &StateError{Node: n.String(), Op: "draw", State: n.state}
	}
	if d, ok := n.impl.(Drawer); ok {
		if err := d.Draw(n); err != nil {
			return err
		}
	}
	n.state = StateDrawn
	return nil
}

// Release frees the GPU resources of n. It is safe in any state.
func (n *Node) Release() {
	if !n.ready() {
		return
	}
	if r, ok := n.impl.(Releaser); ok {
		r.Release(n)
	}
	n.state = StateReleased
}

// Uninit releases n and frees its initialization state. It is safe in any
// state.
func (n *Node) Uninit() {
	n.Release()
	if n.state == StateUninitialized {
		return
	}
	if u, ok := n.impl.(Uninitializer); ok {
		u.Uninit(n)
	}
	n.state = StateUninitialized
	n.pass, n.honored, n.updatePass = 0, 0, 0
	n.failed = false
}

// inherit passes the transforms of n down to child unchanged.
func (n *Node) inherit(child *Node) {
	child.Modelview = n.Modelview
	child.Projection = n.Projection
}
