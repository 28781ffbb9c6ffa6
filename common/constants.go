package common

const (
	SrcFileExtension = ".pl0"
	ConfigFileName   = "pl0.toml"
	PL0Version       = "0.2.1"
)

// UnitSize is the width in bytes of one declared word.  Symbol offsets are
// byte offsets; dividing by UnitSize yields the slot index within the local
// area of an activation record.
const UnitSize = 4

// Activation record layout.  Slot indices are relative to the frame base
// (the machine's sp register).  The display area starts at DisplaySlot and
// holds level+1 frame bases, one per enclosing lexical level including the
// frame's own; locals follow immediately after.
const (
	RetAddrSlot    = 0 // saved program counter
	DynLinkSlot    = 1 // caller's frame base
	DisplayPtrSlot = 2 // cached address of the display area (frame base + 3)
	DisplaySlot    = 3 // first display entry
)
