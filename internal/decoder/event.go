package decoder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Event is one transactionNotification frame as an untyped tree. Numbers are
// kept as json.Number so lamport amounts stay exact.
type Event struct {
	root any
}

func ParseEvent(payload []byte) (*Event, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("failed to parse event: %w", err)
	}
	return &Event{root: root}, nil
}

func (e *Event) result() (any, bool) {
	return lookup(e.root, "params", "result")
}

// Signature returns params.result.signature.
func (e *Event) Signature() (string, bool) {
	result, ok := e.result()
	if !ok {
		return "", false
	}
	return str(lookup(result, "signature"))
}

// Instructions returns the top-level instructions of the transaction message.
func (e *Event) Instructions() ([]Instruction, bool) {
	result, ok := e.result()
	if !ok {
		return nil, false
	}
	list, ok := array(lookup(result, "transaction", "transaction", "message", "instructions"))
	if !ok {
		return nil, false
	}
	return toInstructions(list), true
}

// InnerInstructionGroups returns meta.innerInstructions, one slice per group.
// Groups without an instructions array are returned empty.
func (e *Event) InnerInstructionGroups() ([][]Instruction, bool) {
	result, ok := e.result()
	if !ok {
		return nil, false
	}
	groups, ok := array(lookup(result, "transaction", "meta", "innerInstructions"))
	if !ok {
		return nil, false
	}

	out := make([][]Instruction, 0, len(groups))
	for _, group := range groups {
		list, ok := array(lookup(group, "instructions"))
		if !ok {
			out = append(out, nil)
			continue
		}
		out = append(out, toInstructions(list))
	}
	return out, true
}

// InnerInstructions flattens all inner instruction groups in order.
func (e *Event) InnerInstructions() ([]Instruction, bool) {
	groups, ok := e.InnerInstructionGroups()
	if !ok {
		return nil, false
	}
	var out []Instruction
	for _, group := range groups {
		out = append(out, group...)
	}
	return out, true
}

// Instruction is a single compiled or parsed instruction of the feed.
type Instruction struct {
	node map[string]any
}

func toInstructions(list []any) []Instruction {
	out := make([]Instruction, 0, len(list))
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, Instruction{node: obj})
	}
	return out
}

func (ix Instruction) ProgramID() (string, bool) {
	return str(ix.node["programId"], true)
}

// Accounts returns the account list. Entries that are not strings become
// empty strings so the list length is preserved.
func (ix Instruction) Accounts() ([]string, bool) {
	list, ok := array(ix.node["accounts"], true)
	if !ok {
		return nil, false
	}
	out := make([]string, len(list))
	for i, item := range list {
		if s, ok := item.(string); ok {
			out[i] = s
		}
	}
	return out, true
}

// Data returns the base58 payload of a compiled instruction.
func (ix Instruction) Data() (string, bool) {
	return str(ix.node["data"], true)
}

// Info returns a field of parsed.info.
func (ix Instruction) Info(key string) (any, bool) {
	return lookup(ix.node, "parsed", "info", key)
}

func (ix Instruction) InfoString(key string) (string, bool) {
	return str(ix.Info(key))
}

func (ix Instruction) InfoUint64(key string) (uint64, bool) {
	return u64(ix.Info(key))
}

func (ix Instruction) IsProgram(programID string) bool {
	id, ok := ix.ProgramID()
	return ok && id == programID
}

func lookup(node any, path ...string) (any, bool) {
	current := node
	for _, key := range path {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func str(node any, present bool) (string, bool) {
	if !present {
		return "", false
	}
	s, ok := node.(string)
	return s, ok
}

func array(node any, present bool) ([]any, bool) {
	if !present {
		return nil, false
	}
	list, ok := node.([]any)
	return list, ok
}

// u64 accepts a JSON integer or a decimal string.
func u64(node any, present bool) (uint64, bool) {
	if !present {
		return 0, false
	}
	var text string
	switch v := node.(type) {
	case json.Number:
		text = v.String()
	case string:
		text = v
	default:
		return 0, false
	}
	n, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
