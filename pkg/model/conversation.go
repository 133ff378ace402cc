package model

import (
	"reflect"
)

// Node is a message tree: strings, opaque scalars, lists and maps
type Node interface {
	node()
}

type (
	// String is a text leaf, the only leaf that may embed file references
	String string
	// Scalar is any other leaf (number, bool, timestamp, nil or an unknown shape)
	Scalar struct{ Value any }
	List   []Node
	Map    map[string]Node
)

func (String) node() {}
func (Scalar) node() {}
func (List) node()   {}
func (Map) node()    {}

// NewNode converts a decoded document value into a Node. Slices and string-keyed maps of
// any element type are walked; everything else is kept as an opaque Scalar.
func NewNode(v any) Node {
	switch x := v.(type) {
	case nil:
		return Scalar{}
	case Node:
		return x
	case string:
		return String(x)
	case []any:
		list := make(List, 0, len(x))
		for _, e := range x {
			list = append(list, NewNode(e))
		}
		return list
	case map[string]any:
		m := make(Map, len(x))
		for k, e := range x {
			m[k] = NewNode(e)
		}
		return m
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return String(rv.String())
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Scalar{Value: v}
		}
		list := make(List, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			list = append(list, NewNode(rv.Index(i).Interface()))
		}
		return list
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Scalar{Value: v}
		}
		m := make(Map, rv.Len())
		for _, k := range rv.MapKeys() {
			m[k.String()] = NewNode(rv.MapIndex(k).Interface())
		}
		return m
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Scalar{}
		}
		return NewNode(rv.Elem().Interface())
	default:
		return Scalar{Value: v}
	}
}

// Conversation is a conversation record of an agent
type Conversation struct {
	Key         string
	WorkspaceID WorkspaceID
	AgentID     AgentID
	Messages    Node
}

// NewConversation decodes a conversation record using the layout field names
func NewConversation(rec *Record, fields LayoutFields) *Conversation {
	return &Conversation{
		Key:         rec.Key,
		WorkspaceID: WorkspaceID(rec.Field(fields.WorkspaceID)),
		AgentID:     AgentID(rec.Field(fields.AgentID)),
		Messages:    NewNode(rec.Data[fields.Messages]),
	}
}

// FileKeyPrefix is the object key prefix of conversation file blobs of a workspace
func FileKeyPrefix(workspaceID WorkspaceID) string {
	return "conversation-files/" + string(workspaceID) + "/"
}
