package svg

import (
	"fmt"
)

// PatchOp represents the type of patch operation
type PatchOp uint8

const (
	// OpSetAttribute sets or replaces an attribute
	OpSetAttribute PatchOp = 0x02
	// OpInsertNode appends a new element to its parent
	OpInsertNode PatchOp = 0x04
)

// Patch represents a single mutation of the document
type Patch struct {
	Op       PatchOp
	NodeID   uint32
	ParentID uint32 // For insert operations, 0 for a root
	Tag      string // For insert operations
	Key      string // Attribute key for set attribute
	Value    string // Attribute value
}

// String returns a human-readable representation of the patch
func (p Patch) String() string {
	switch p.Op {
	case OpSetAttribute:
		return fmt.Sprintf("SetAttribute(node=%d, key=%q, value=%q)", p.NodeID, p.Key, p.Value)
	case OpInsertNode:
		return fmt.Sprintf("InsertNode(node=%d, parent=%d, tag=%q)", p.NodeID, p.ParentID, p.Tag)
	default:
		return fmt.Sprintf("Unknown(op=%d)", p.Op)
	}
}
