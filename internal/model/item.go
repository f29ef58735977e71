package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownType is returned when a record carries a type discriminant that
// no variant handles.
var ErrUnknownType = errors.New("unknown item type")

// Type is the discriminant of an Item.
type Type string

const (
	TypeNote        Type = "NOTE"
	TypeFile        Type = "FILE"
	TypeTransaction Type = "TRANSACTION"
	TypeEvent       Type = "EVENT"
	TypeTask        Type = "TASK"
	TypeGoal        Type = "GOAL"
	TypeProject     Type = "PROJECT"
	TypeCode        Type = "CODE"
)

// Types lists every item type in display order.
var Types = []Type{TypeNote, TypeFile, TypeTransaction, TypeEvent, TypeTask, TypeGoal, TypeProject, TypeCode}

// ParseType returns the Type matching s, case-sensitively.
func ParseType(s string) (Type, error) {
	for _, t := range Types {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Item is a single persisted record. The fields shared by every variant live
// here; the variant payload lives in Details, which also determines the type.
type Item struct {
	ID        string
	CreatedAt int64 // milliseconds since epoch
	Content   string
	Tags      []string
	// CollectionID is attached by the storage gateway on save.
	CollectionID string
	Details      Details
}

// Details is the closed set of item variants. Only types in this package
// implement it.
type Details interface {
	Type() Type
	details()
}

// Type reports the item's discriminant. An item without details is treated
// as a note.
func (it Item) Type() Type {
	if it.Details == nil {
		return TypeNote
	}
	return it.Details.Type()
}

// header holds the base fields shared by every serialised variant.
type header struct {
	ID           string   `json:"id"`
	Type         Type     `json:"type"`
	CreatedAt    int64    `json:"createdAt"`
	Content      string   `json:"content"`
	Tags         []string `json:"tags"`
	CollectionID string   `json:"collectionId,omitempty"`
}

// MarshalJSON writes the item as a flat tagged record.
func (it Item) MarshalJSON() ([]byte, error) {
	h := header{
		ID:           it.ID,
		Type:         it.Type(),
		CreatedAt:    it.CreatedAt,
		Content:      it.Content,
		Tags:         it.Tags,
		CollectionID: it.CollectionID,
	}
	if h.Tags == nil {
		h.Tags = []string{}
	}

	switch d := it.Details.(type) {
	case nil:
		return json.Marshal(struct {
			header
			Note
		}{h, Note{}})
	case Note:
		return json.Marshal(struct {
			header
			Note
		}{h, d})
	case Code:
		return json.Marshal(struct {
			header
			Code
		}{h, d})
	case Transaction:
		return json.Marshal(struct {
			header
			Transaction
		}{h, d})
	case Event:
		return json.Marshal(struct {
			header
			Event
		}{h, d})
	case Task:
		return json.Marshal(struct {
			header
			Task
		}{h, d})
	case Project:
		return json.Marshal(struct {
			header
			Project
		}{h, d})
	case Goal:
		return json.Marshal(struct {
			header
			Goal
		}{h, d})
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownType, d)
	}
}

// UnmarshalJSON reads a flat tagged record, picking the variant from "type".
func (it *Item) UnmarshalJSON(data []byte) error {
	var h header
	if err := json.Unmarshal(data, &h); err != nil {
		return err
	}

	var d Details
	switch h.Type {
	case TypeNote, TypeFile:
		var n Note
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		n.File = h.Type == TypeFile
		d = n
	case TypeCode:
		var c Code
		if err := json.Unmarshal(data, &c); err != nil {
			return err
		}
		d = c
	case TypeTransaction:
		var t Transaction
		if err := json.Unmarshal(data, &t); err != nil {
			return err
		}
		d = t
	case TypeEvent:
		var e Event
		if err := json.Unmarshal(data, &e); err != nil {
			return err
		}
		d = e
	case TypeTask:
		var t Task
		if err := json.Unmarshal(data, &t); err != nil {
			return err
		}
		d = t
	case TypeProject:
		var p Project
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		d = p
	case TypeGoal:
		var g Goal
		if err := json.Unmarshal(data, &g); err != nil {
			return err
		}
		d = g
	default:
		return fmt.Errorf("%w: %q (id %s)", ErrUnknownType, h.Type, h.ID)
	}

	tags := h.Tags
	if tags == nil {
		tags = []string{}
	}
	*it = Item{
		ID:           h.ID,
		CreatedAt:    h.CreatedAt,
		Content:      h.Content,
		Tags:         tags,
		CollectionID: h.CollectionID,
		Details:      d,
	}
	return nil
}

// Title returns the most descriptive single-line label of the item.
func (it Item) Title() string {
	switch d := it.Details.(type) {
	case Project:
		if d.Name != "" {
			return d.Name
		}
	case Goal:
		if d.Name != "" {
			return d.Name
		}
	case Note:
		if d.File && it.Content == "" {
			return d.FileName
		}
	case nil, Code, Transaction, Event, Task:
	}
	return it.Content
}
