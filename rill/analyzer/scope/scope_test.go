package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModuleScope(t *testing.T) {
	tracker := NewTracker()

	tracker.EnterModule("m")
	assert.Equal(t, "m", tracker.CurrentModuleID())
	assert.Equal(t, "m", tracker.CurrentTarget())
	assert.Equal(t, "m", tracker.CurrentFullTarget())
	assert.Equal(t, "", tracker.CurrentTypeName())
	assert.Equal(t, "", tracker.CurrentFunctionName())
	tracker.LeaveModule()

	// the tracker must be reusable for the next module pass
	tracker.EnterModule("n")
	assert.Equal(t, "n", tracker.CurrentTarget())
	tracker.LeaveModule()
}

func TestNestedFunctionsAreAbsorbed(t *testing.T) {
	tracker := NewTracker()
	tracker.EnterModule("m")

	f := NewFuncSymbol("f", "m.f")
	g := NewFuncSymbol("g", "m.f.g")

	tracker.EnterFunction(f)
	assert.Equal(t, "m.f", tracker.CurrentTarget())
	assert.Equal(t, "f", tracker.CurrentFunctionName())
	assert.Equal(t, uint(0), tracker.ignored)

	tracker.EnterFunction(g)
	assert.Equal(t, "m.f", tracker.CurrentTarget(), "nested function must not replace the active function")
	assert.Equal(t, "f", tracker.CurrentFunctionName())
	assert.Equal(t, uint(1), tracker.ignored)

	tracker.LeaveFunction()
	assert.Equal(t, uint(0), tracker.ignored)
	assert.Equal(t, "m.f", tracker.CurrentTarget())

	tracker.LeaveFunction()
	assert.Equal(t, "m", tracker.CurrentTarget())

	tracker.LeaveModule()
}

func TestClassOutsideFunction(t *testing.T) {
	tracker := NewTracker()
	tracker.EnterModule("m")

	cls := NewClassSymbol("C", "m.C")
	tracker.EnterClass(cls)

	// classes alone never produce a target distinct from the module
	assert.Equal(t, "m", tracker.CurrentTarget())
	assert.Equal(t, "m.C", tracker.CurrentFullTarget())
	assert.Equal(t, "C", tracker.CurrentTypeName())

	inner := NewClassSymbol("Inner", "m.C.Inner")
	tracker.EnterClass(inner)
	assert.Equal(t, "m", tracker.CurrentTarget())
	assert.Equal(t, "m.C.Inner", tracker.CurrentFullTarget())
	assert.Equal(t, "Inner", tracker.CurrentTypeName())
	tracker.LeaveClass()

	assert.Equal(t, "m.C", tracker.CurrentFullTarget())
	tracker.LeaveClass()
	assert.Equal(t, "m", tracker.CurrentFullTarget())

	tracker.LeaveModule()
}

func TestClassInsideFunctionIsAbsorbed(t *testing.T) {
	tracker := NewTracker()
	tracker.EnterModule("m")

	f := NewFuncSymbol("f", "m.f")
	tracker.EnterFunction(f)

	local := NewClassSymbol("Local", "m.f.Local")
	tracker.EnterClass(local)
	assert.Equal(t, uint(1), tracker.ignored)
	assert.Equal(t, "m.f", tracker.CurrentTarget())
	assert.Equal(t, "m.f", tracker.CurrentFullTarget(), "a class entered inside a function must not change the full target")
	assert.Equal(t, "", tracker.CurrentTypeName())

	tracker.LeaveClass()
	assert.Equal(t, uint(0), tracker.ignored)

	tracker.LeaveFunction()
	tracker.LeaveModule()
}

func TestMethodScope(t *testing.T) {
	tracker := NewTracker()
	tracker.EnterModule("m")

	cls := NewClassSymbol("C", "m.C")
	method := NewFuncSymbol("load", "m.C.load")

	tracker.EnterClass(cls)
	tracker.EnterFunction(method)

	assert.Equal(t, "m.C.load", tracker.CurrentTarget())
	assert.Equal(t, "m.C.load", tracker.CurrentFullTarget())
	assert.Equal(t, "C", tracker.CurrentTypeName())
	assert.Equal(t, "load", tracker.CurrentFunctionName())

	tracker.LeaveFunction()
	tracker.LeaveClass()
	tracker.LeaveModule()
}

// Any sequence of paired enter/leave calls must leave the tracker in the
// state it started in.
func TestRoundTripIdentity(t *testing.T) {
	tracker := NewTracker()
	tracker.EnterModule("m")

	f := NewFuncSymbol("f", "m.f")
	g := NewFuncSymbol("g", "m.f.g")
	cls := NewClassSymbol("C", "m.C")
	local := NewClassSymbol("Local", "m.f.Local")

	tracker.EnterClass(cls)
	tracker.EnterFunction(f)
	tracker.EnterFunction(g)
	tracker.EnterClass(local)
	tracker.LeaveClass()
	tracker.LeaveFunction()
	tracker.LeaveFunction()
	tracker.LeaveClass()

	assert.Equal(t, "m", tracker.CurrentTarget())
	assert.Equal(t, "m", tracker.CurrentFullTarget())
	assert.Equal(t, "", tracker.CurrentTypeName())
	assert.Equal(t, "", tracker.CurrentFunctionName())
	assert.Equal(t, uint(0), tracker.ignored)
	assert.Empty(t, tracker.classes)

	tracker.LeaveModule()
}

type queryResults struct {
	moduleID     string
	target       string
	fullTarget   string
	typeName     string
	functionName string
}

func queryAll(tracker *Tracker) queryResults {
	return queryResults{
		moduleID:     tracker.CurrentModuleID(),
		target:       tracker.CurrentTarget(),
		fullTarget:   tracker.CurrentFullTarget(),
		typeName:     tracker.CurrentTypeName(),
		functionName: tracker.CurrentFunctionName(),
	}
}

func TestSaveRestore(t *testing.T) {
	tracker := NewTracker()
	tracker.EnterModule("m")

	outer := NewClassSymbol("Outer", "m.Outer")
	inner := NewClassSymbol("Inner", "m.Outer.Inner")
	method := NewFuncSymbol("run", "m.Outer.Inner.run")

	tracker.EnterClass(outer)
	tracker.EnterClass(inner)
	tracker.EnterFunction(method)

	saved := tracker.Save()
	want := queryAll(tracker)

	tracker.LeaveFunction()
	tracker.LeaveClass()
	tracker.LeaveClass()
	tracker.LeaveModule()

	// restore after the original scope has been fully left
	release := tracker.Restore(saved)
	assert.Equal(t, want, queryAll(tracker))
	release()

	// the release must leave the tracker without an active module again
	assert.Panics(t, func() {
		tracker.CurrentModuleID()
	})
}

func TestSaveRestoreWithoutFunction(t *testing.T) {
	tracker := NewTracker()
	tracker.EnterModule("m")

	cls := NewClassSymbol("C", "m.C")
	tracker.EnterClass(cls)

	saved := tracker.Save()
	want := queryAll(tracker)

	tracker.LeaveClass()
	tracker.LeaveModule()

	release := tracker.Restore(saved)
	assert.Equal(t, want, queryAll(tracker))
	assert.Equal(t, "m", tracker.CurrentTarget())
	assert.Equal(t, "m.C", tracker.CurrentFullTarget())
	release()
}

// Restoring while the original scope is still active must reproduce the saved
// query answers and hand the interrupted scope back on release.
func TestSaveRestoreNested(t *testing.T) {
	tracker := NewTracker()
	tracker.EnterModule("m")

	cls := NewClassSymbol("C", "m.C")
	tracker.EnterClass(cls)

	saved := tracker.Save()
	want := queryAll(tracker)

	// traversal continues past the saved point
	tracker.EnterFunction(NewFuncSymbol("f", "m.C.f"))
	interrupted := queryAll(tracker)

	release := tracker.Restore(saved)
	assert.Equal(t, want, queryAll(tracker))
	release()

	assert.Equal(t, interrupted, queryAll(tracker))

	tracker.LeaveFunction()
	tracker.LeaveClass()
	tracker.LeaveModule()
}

func TestSaveRestoreModuleOnly(t *testing.T) {
	tracker := NewTracker()
	tracker.EnterModule("m")

	saved := tracker.Save()
	want := queryAll(tracker)
	tracker.LeaveModule()

	release := tracker.Restore(saved)
	assert.Equal(t, want, queryAll(tracker))
	release()
}

func TestAbsorptionCounterPairing(t *testing.T) {
	tracker := NewTracker()
	tracker.EnterModule("m")

	tracker.EnterFunction(NewFuncSymbol("f", "m.f"))
	assert.Equal(t, "m.f", tracker.CurrentTarget())

	tracker.EnterFunction(NewFuncSymbol("g", "m.f.g"))
	assert.Equal(t, "m.f", tracker.CurrentTarget())
	assert.Equal(t, uint(1), tracker.ignored)

	tracker.LeaveFunction()
	assert.Equal(t, uint(0), tracker.ignored)

	tracker.LeaveFunction()
	assert.Equal(t, "m", tracker.CurrentTarget())

	tracker.LeaveModule()
}

func TestInvariantViolationsPanic(t *testing.T) {
	t.Run("QueryWithoutModule", func(t *testing.T) {
		tracker := NewTracker()
		assert.Panics(t, func() { tracker.CurrentModuleID() })
		assert.Panics(t, func() { tracker.CurrentTarget() })
		assert.Panics(t, func() { tracker.CurrentFullTarget() })
		assert.Panics(t, func() { tracker.Save() })
	})

	t.Run("NestedModule", func(t *testing.T) {
		tracker := NewTracker()
		tracker.EnterModule("m")
		assert.Panics(t, func() { tracker.EnterModule("n") })
	})

	t.Run("EmptyModuleName", func(t *testing.T) {
		tracker := NewTracker()
		assert.Panics(t, func() { tracker.EnterModule("") })
	})

	t.Run("UnmatchedLeaveModule", func(t *testing.T) {
		tracker := NewTracker()
		assert.Panics(t, func() { tracker.LeaveModule() })
	})

	t.Run("UnmatchedLeaveFunction", func(t *testing.T) {
		tracker := NewTracker()
		tracker.EnterModule("m")
		assert.Panics(t, func() { tracker.LeaveFunction() })
	})

	t.Run("UnmatchedLeaveClass", func(t *testing.T) {
		tracker := NewTracker()
		tracker.EnterModule("m")
		assert.Panics(t, func() { tracker.LeaveClass() })
	})
}

// Leaving more classes than the snapshot captured is a known limitation of
// restored trackers and must fail loudly instead of silently corrupting state.
func TestRestoredScopeCannotPopOuterClasses(t *testing.T) {
	tracker := NewTracker()
	tracker.EnterModule("m")
	tracker.EnterClass(NewClassSymbol("Outer", "m.Outer"))
	tracker.EnterClass(NewClassSymbol("Inner", "m.Outer.Inner"))

	saved := tracker.Save()

	tracker.LeaveClass()
	tracker.LeaveClass()
	tracker.LeaveModule()

	_ = tracker.Restore(saved)
	tracker.LeaveClass() // pops the single restored class
	assert.Panics(t, func() { tracker.LeaveClass() })
}
