package sap

import (
	"encoding/json"
	"strconv"
)

// HierarchyStatusActive marks an active branch of the WEBHIERARCHY table.
const HierarchyStatusActive = "O"

// HierarchyNode is one row of the flat WEBHIERARCHY user table. Parent links
// are codes into the same table; the resolver turns the flat list into a
// category tree.
type HierarchyNode struct {
	Code       string
	Name       string
	Level      int
	ParentCode string
	Status     string
}

// UnmarshalJSON decodes a user table row. Rows missing a status count as
// active, missing levels default to 1.
func (n *HierarchyNode) UnmarshalJSON(data []byte) error {
	var row struct {
		Code      string          `json:"Code"`
		Name      string          `json:"Name"`
		Level     json.RawMessage `json:"U_Level"`
		Recipient string          `json:"U_Recipient"`
		Status    *string         `json:"U_Status"`
	}
	if err := json.Unmarshal(data, &row); err != nil {
		return err
	}

	n.Code = row.Code
	n.Name = row.Name
	n.ParentCode = row.Recipient
	n.Level = 1
	if s, ok := scalarString(row.Level); ok {
		if lvl, err := strconv.Atoi(s); err == nil {
			n.Level = lvl
		}
	}
	n.Status = HierarchyStatusActive
	if row.Status != nil {
		n.Status = *row.Status
	}
	return nil
}

// Active reports whether the node belongs to an active branch.
func (n HierarchyNode) Active() bool {
	return n.Status == HierarchyStatusActive
}
