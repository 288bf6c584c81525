package models

import (
	"time"
)

// InviteCode gates registration. Codes are issued by admins and are single
// use; UsedBy/UsedAt are set when a registration redeems the code.
type InviteCode struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Code      string     `gorm:"size:36;not null;unique" json:"code"`
	CreatedBy uint       `gorm:"not null" json:"created_by"`
	Creator   User       `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	UsedBy    *uint      `json:"used_by"`
	UsedAt    *time.Time `json:"used_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (ic *InviteCode) Used() bool {
	return ic.UsedBy != nil
}
