package objmodel

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/broady/objmodel/member"
)

// serializable returns the data members written by MarshalJSON, in declaration order.
func (d *TypeDescriptor) serializable() []member.Metadata {
	var out []member.Metadata
	for _, name := range d.order {
		meta := d.members[name]
		if d.isData(name) && meta.Serializable {
			out = append(out, meta)
		}
	}
	return out
}

// MarshalJSON encodes every serializable data member as one JSON object.
// Keys follow declaration order.
func (i *Instance) MarshalJSON() ([]byte, error) {
	if i.typ == nil {
		return nil, NewError(CodeInstantiation, "cannot encode an instance without a type")
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for n, meta := range i.typ.serializable() {
		if n > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(meta.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(i.slots[meta.Name])
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", i.typ.name, meta.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON assigns the serializable data members present in data.
// Values are type-checked like a setter would; a JSON object given for a
// class-typed member is decoded into a new instance of that class.
// Unknown and non-serializable keys are ignored. On error no member is assigned.
func (i *Instance) UnmarshalJSON(data []byte) error {
	if i.typ == nil {
		return NewError(CodeInstantiation, "cannot decode into an instance without a type")
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded := make(map[string]any, len(raw))
	for _, meta := range i.typ.serializable() {
		msg, ok := raw[meta.Name]
		if !ok {
			continue
		}
		v, err := i.decodeMember(meta, msg)
		if err != nil {
			return err
		}
		if err := checkValue(meta, v, meta.Name, i.typ.env.lookup); err != nil {
			return err
		}
		decoded[meta.Name] = v
	}
	for name, v := range decoded {
		i.slots[name] = v
	}
	return nil
}

func (i *Instance) decodeMember(meta member.Metadata, msg json.RawMessage) (any, error) {
	trimmed := bytes.TrimSpace(msg)
	if meta.TypeKind == member.KindClass && len(trimmed) > 0 && trimmed[0] == '{' {
		cls, ok := i.typ.env.lookup.Class(meta.Type)
		if !ok {
			return nil, Errorf(CodeResolutionFailure, "class %s of member %s is not declared", meta.Type, meta.Name).
				WithDetails(map[string]any{"type": i.typ.name, "member": meta.Name})
		}
		child, err := cls.New()
		if err != nil {
			return nil, err
		}
		if err := child.UnmarshalJSON(msg); err != nil {
			return nil, err
		}
		return child, nil
	}
	var v any
	if err := json.Unmarshal(msg, &v); err != nil {
		return nil, fmt.Errorf("%s.%s: %w", i.typ.name, meta.Name, err)
	}
	return v, nil
}
