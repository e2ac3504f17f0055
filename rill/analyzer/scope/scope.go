// Package scope tracks which target (module or function) owns the code the
// analyzer is currently visiting, so that diagnostics and dependency edges can
// be attributed to the correct unit for incremental re-analysis.
package scope

//
// Symbols
//

// FuncSymbol identifies a function by its short and fully-qualified name.
// The names are opaque to the tracker and supplied by the caller.
type FuncSymbol struct {
	Name     string
	FullName string
}

func NewFuncSymbol(name string, fullName string) *FuncSymbol {
	return &FuncSymbol{
		Name:     name,
		FullName: fullName,
	}
}

// ClassSymbol identifies a class by its short and fully-qualified name.
type ClassSymbol struct {
	Name     string
	FullName string
}

func NewClassSymbol(name string, fullName string) *ClassSymbol {
	return &ClassSymbol{
		Name:     name,
		FullName: fullName,
	}
}

//
// Tracker
//

// Tracker maintains the current scope of a single module pass.
//
// Nested scopes that do not form their own target are absorbed: a function
// defined inside a function, or a class defined inside a function body, only
// increments a depth counter so that its matching leave call can be paired
// without creating a new target. Classes outside of functions are stacked and
// addressable for class-name queries, but never form a target of their own.
//
// All misuse (leave without enter, query without an active module) is a bug in
// the traversal engine's call discipline and panics.
type Tracker struct {
	module   string
	classes  []*ClassSymbol
	function *FuncSymbol
	// Number of nested scopes absorbed into the current target
	ignored uint
}

func NewTracker() *Tracker {
	return &Tracker{
		module:   "",
		classes:  make([]*ClassSymbol, 0),
		function: nil,
		ignored:  0,
	}
}

// EnterModule begins a module pass, resetting any class / function state of a
// previous pass. Module scopes cannot be nested.
func (self *Tracker) EnterModule(name string) {
	if self.module != "" {
		panic("`EnterModule` was called while another module is active")
	}
	if name == "" {
		panic("`EnterModule` was called with an empty module name")
	}
	self.module = name
	self.classes = self.classes[:0]
	self.function = nil
	self.ignored = 0
}

func (self *Tracker) LeaveModule() {
	if self.module == "" {
		panic("`LeaveModule` was called without an active module")
	}
	self.module = ""
}

// EnterFunction makes `fn` the active function unless one is active already.
// In that case `fn` is a nested definition and is absorbed into the enclosing
// function's target.
func (self *Tracker) EnterFunction(fn *FuncSymbol) {
	if self.function == nil {
		self.function = fn
	} else {
		// Nested functions are part of the topmost function target.
		self.ignored++
	}
}

func (self *Tracker) LeaveFunction() {
	if self.ignored != 0 {
		// Leave a scope that is included in the enclosing target.
		self.ignored--
		return
	}
	if self.function == nil {
		panic("`LeaveFunction` was called without an active function")
	}
	self.function = nil
}

// EnterClass pushes `cls` onto the class stack. Classes inside a function body
// are absorbed into the enclosing function's target instead.
func (self *Tracker) EnterClass(cls *ClassSymbol) {
	if self.function == nil {
		self.classes = append(self.classes, cls)
	} else {
		// Classes within functions are part of the enclosing function target.
		self.ignored++
	}
}

func (self *Tracker) LeaveClass() {
	if self.ignored != 0 {
		// Leave a scope that is included in the enclosing target.
		self.ignored--
		return
	}
	if len(self.classes) == 0 {
		panic("`LeaveClass` was called without an active class")
	}
	// Leave the innermost class.
	self.classes = self.classes[:len(self.classes)-1]
}

//
// Queries
//

func (self Tracker) CurrentModuleID() string {
	if self.module == "" {
		panic("`CurrentModuleID` was called without an active module")
	}
	return self.module
}

// CurrentTarget returns the dependency-tracking target of the code currently
// being visited: the active function, or the module. Class bodies outside of
// functions are attributed to the module target.
func (self Tracker) CurrentTarget() string {
	if self.module == "" {
		panic("`CurrentTarget` was called without an active module")
	}
	if self.function != nil {
		return self.function.FullName
	}
	return self.module
}

// CurrentFullTarget returns a more granular identity than CurrentTarget: it
// may also name the innermost class. Used for scope-named diagnostics, not for
// dependency keys.
func (self Tracker) CurrentFullTarget() string {
	if self.module == "" {
		panic("`CurrentFullTarget` was called without an active module")
	}
	if self.function != nil {
		return self.function.FullName
	}
	if len(self.classes) != 0 {
		return self.classes[len(self.classes)-1].FullName
	}
	return self.module
}

// CurrentTypeName returns the innermost class's short name, or "" if there is
// no active class.
func (self Tracker) CurrentTypeName() string {
	if len(self.classes) != 0 {
		return self.classes[len(self.classes)-1].Name
	}
	return ""
}

// CurrentFunctionName returns the active function's short name, or "" if there
// is no active function.
func (self Tracker) CurrentFunctionName() string {
	if self.function != nil {
		return self.function.Name
	}
	return ""
}

//
// Save / restore
//

// SavedScope is a snapshot of (module, innermost class, function) sufficient
// to later reproduce all query answers observable at the time of the save.
type SavedScope struct {
	module   string
	class    *ClassSymbol
	function *FuncSymbol
}

// Save snapshots the current scope so a deferred node can later be processed
// with Restore, outside of the normal top-down traversal order.
func (self Tracker) Save() SavedScope {
	if self.module == "" {
		panic("`Save` was called without an active module")
	}

	// Only the innermost class is saved; the outer ones can never affect query
	// results and are only needed when classes are left during traversal.
	var cls *ClassSymbol
	if len(self.classes) != 0 {
		cls = self.classes[len(self.classes)-1]
	}

	return SavedScope{
		module:   self.module,
		class:    cls,
		function: self.function,
	}
}

// Restore re-enters the saved module, class and function scopes and returns a
// release function that leaves them again in reverse order. Unlike
// EnterModule, Restore may be called while a module pass is in progress: the
// interrupted scope is reinstated by the release function.
//
// Because only the innermost class is restored, calling LeaveClass past the
// restored class on a restored tracker panics. Restoration reproduces query
// answers; it cannot resume popping the original class stack.
func (self *Tracker) Restore(saved SavedScope) (release func()) {
	prevModule := self.module
	prevClasses := self.classes
	prevFunction := self.function
	prevIgnored := self.ignored

	self.module = saved.module
	self.classes = make([]*ClassSymbol, 0, 1)
	self.function = nil
	self.ignored = 0
	if saved.class != nil {
		self.EnterClass(saved.class)
	}
	if saved.function != nil {
		self.EnterFunction(saved.function)
	}

	return func() {
		self.module = prevModule
		self.classes = prevClasses
		self.function = prevFunction
		self.ignored = prevIgnored
	}
}
