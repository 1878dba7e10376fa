package panel

import (
	"slices"
	"sync"
)

// Folder groups parameters under a collapsible title.
type Folder interface {
	// Title returns the folder heading.
	Title() string

	// Closed reports whether the folder is collapsed.
	Closed() bool

	// Open expands the folder.
	Open()

	// Close collapses the folder.
	Close()

	// AddNumber binds a numeric attribute. Configure the range by chaining Min, Max and Step.
	//
	// Parameters:
	//   - label: the display name
	//   - acc: reads and writes the target attribute
	//
	// Returns:
	//   - *Number: the parameter for chaining
	AddNumber(label string, acc Accessor[float64]) *Number

	// AddBool binds a boolean attribute as a checkbox.
	//
	// Parameters:
	//   - label: the display name
	//   - acc: reads and writes the target attribute
	//
	// Returns:
	//   - *Bool: the parameter for chaining
	AddBool(label string, acc Accessor[bool]) *Bool

	// AddColor binds the color of a target through its color-set method.
	//
	// Parameters:
	//   - label: the display name
	//   - target: the material or light
	//
	// Returns:
	//   - *Color: the parameter for chaining
	AddColor(label string, target ColorTarget) *Color

	// AddAction adds a button.
	//
	// Parameters:
	//   - label: the display name
	//   - fn: invoked on Press
	//
	// Returns:
	//   - *Action: the parameter for chaining
	AddAction(label string, fn func()) *Action

	// Params returns the parameters in insertion order.
	Params() []Param

	// Find returns the parameter with the given label, or nil.
	Find(label string) Param
}

// Panel is the root of a live parameter view: a titled folder that can be hidden and hold sub-folders.
// It does no I/O; it is a view over bound parameters.
type Panel interface {
	Folder

	// Width returns the panel width in pixels.
	Width() int

	// Hidden reports whether the panel is hidden.
	Hidden() bool

	// Show makes the panel visible.
	Show()

	// Hide hides the panel.
	Hide()

	// Toggle flips visibility.
	Toggle()

	// AddFolder creates a sub-folder. New folders start closed when the panel closes folders by default.
	//
	// Parameters:
	//   - title: the folder heading
	//
	// Returns:
	//   - Folder: the new folder
	AddFolder(title string) Folder

	// Folders returns the sub-folders in insertion order.
	Folders() []Folder

	// Snapshot returns every parameter's current value keyed by "Folder/label"
	// (top-level parameters use the bare label). Actions are omitted.
	//
	// Returns:
	//   - map[string]any: the current values
	Snapshot() map[string]any
}

type folder struct {
	mu *sync.Mutex

	title  string
	closed bool
	params []Param
}

var _ Folder = &folder{}

type panel struct {
	*folder

	width        int
	hidden       bool
	closeFolders bool
	folders      []*folder
}

var _ Panel = &panel{}

// NewPanel creates a visible panel with the default width of 245 pixels.
//
// Parameters:
//   - options: functional options to configure the panel
//
// Returns:
//   - Panel: the new panel
func NewPanel(options ...PanelBuilderOption) Panel {
	p := &panel{
		folder: newFolder("Controls", false),
		width:  245,
	}
	for _, option := range options {
		option(p)
	}
	return p
}

func newFolder(title string, closed bool) *folder {
	return &folder{mu: &sync.Mutex{}, title: title, closed: closed}
}

func (f *folder) Title() string { return f.title }

func (f *folder) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *folder) Open() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = false
}

func (f *folder) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *folder) AddNumber(label string, acc Accessor[float64]) *Number {
	n := newNumber(label, acc)
	f.add(n)
	return n
}

func (f *folder) AddBool(label string, acc Accessor[bool]) *Bool {
	b := &Bool{label: label, acc: acc}
	f.add(b)
	return b
}

func (f *folder) AddColor(label string, target ColorTarget) *Color {
	c := &Color{label: label, target: target}
	f.add(c)
	return c
}

func (f *folder) AddAction(label string, fn func()) *Action {
	a := &Action{label: label, fn: fn}
	f.add(a)
	return a
}

func (f *folder) Params() []Param {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.params)
}

func (f *folder) Find(label string) Param {
	for _, p := range f.Params() {
		if p.Label() == label {
			return p
		}
	}
	return nil
}

func (f *folder) add(p Param) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.params = append(f.params, p)
}

func (p *panel) Width() int { return p.width }

func (p *panel) Hidden() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hidden
}

func (p *panel) Show() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hidden = false
}

func (p *panel) Hide() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hidden = true
}

func (p *panel) Toggle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hidden = !p.hidden
}

func (p *panel) AddFolder(title string) Folder {
	f := newFolder(title, p.closeFolders)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.folders = append(p.folders, f)
	return f
}

func (p *panel) Folders() []Folder {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Folder, len(p.folders))
	for i, f := range p.folders {
		out[i] = f
	}
	return out
}

func (p *panel) Snapshot() map[string]any {
	out := make(map[string]any)
	collect := func(prefix string, params []Param) {
		for _, param := range params {
			if param.Kind() == KindAction {
				continue
			}
			out[prefix+param.Label()] = param.Current()
		}
	}
	collect("", p.Params())
	for _, f := range p.Folders() {
		collect(f.Title()+"/", f.Params())
	}
	return out
}
