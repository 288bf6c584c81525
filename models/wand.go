package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Wand component kinds.
const (
	WandKindWood        = "wood"
	WandKindCore        = "core"
	WandKindLength      = "length"
	WandKindFlexibility = "flexibility"
)

// ComponentListVersion is the current schema version of the Items column.
// Version 0 (legacy) allowed bare strings in the items array; version 1
// requires the object shape.
const ComponentListVersion = 1

type WandComponentItem struct {
	Name               string `json:"name"`
	Description        string `json:"description"`
	AvailableForRandom bool   `json:"available_for_random"`
}

// ComponentList is a versioned JSON column. Legacy rows stored either a bare
// array (possibly mixing strings and objects) or nothing; Scan normalizes
// both into the versioned object shape so read sites never branch on entry
// type.
type ComponentList struct {
	Version int                 `json:"version"`
	Items   []WandComponentItem `json:"items"`
}

func (cl *ComponentList) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*cl = ComponentList{Version: ComponentListVersion}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported component list type %T", value)
	}
	normalized, err := NormalizeComponentList(data)
	if err != nil {
		return err
	}
	*cl = normalized
	return nil
}

func (cl ComponentList) Value() (driver.Value, error) {
	cl.Version = ComponentListVersion
	if cl.Items == nil {
		cl.Items = []WandComponentItem{}
	}
	return json.Marshal(cl)
}

// NormalizeComponentList parses raw column JSON in any of the shapes this
// column has historically held and returns the current versioned shape.
func NormalizeComponentList(data []byte) (ComponentList, error) {
	if len(data) == 0 {
		return ComponentList{Version: ComponentListVersion, Items: []WandComponentItem{}}, nil
	}

	// Current shape: {"version":1,"items":[...]}
	var current ComponentList
	if err := json.Unmarshal(data, &current); err == nil && current.Version >= ComponentListVersion {
		if current.Items == nil {
			current.Items = []WandComponentItem{}
		}
		return current, nil
	}

	// Legacy shape: bare array of strings and/or objects.
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return ComponentList{}, errors.New("component list is neither versioned nor a legacy array")
	}

	items := make([]WandComponentItem, 0, len(raw))
	for _, entry := range raw {
		var name string
		if err := json.Unmarshal(entry, &name); err == nil {
			// Legacy string entry: name only, eligible for random rolls.
			items = append(items, WandComponentItem{Name: name, AvailableForRandom: true})
			continue
		}
		var item WandComponentItem
		if err := json.Unmarshal(entry, &item); err != nil {
			return ComponentList{}, fmt.Errorf("invalid component entry %s", entry)
		}
		items = append(items, item)
	}
	return ComponentList{Version: ComponentListVersion, Items: items}, nil
}

// WandComponent holds the catalog of options for one slot of a wand (wood,
// core, length, flexibility) as a single versioned JSON row per kind.
type WandComponent struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Kind      string        `gorm:"size:20;not null;unique" json:"kind"`
	Items     ComponentList `gorm:"type:jsonb" json:"items"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
