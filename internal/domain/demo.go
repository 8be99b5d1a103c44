package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RoleSupplyChainManager is the role seeded onto every demo's first user.
const RoleSupplyChainManager = "supplychainmanager"

type Demo struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	GUID      string    `json:"guid" gorm:"uniqueIndex;not null"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Users     []User    `json:"users" gorm:"foreignKey:DemoID;constraint:OnDelete:CASCADE"`
}

type User struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	DemoID    uuid.UUID      `json:"demoId" gorm:"type:uuid;index;not null"`
	Username  string         `json:"username" gorm:"not null"`
	Email     string         `json:"email" gorm:"not null"`
	Roles     []Role         `json:"roles,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	ERPUser   datatypes.JSON `json:"-"`
	CreatedAt time.Time      `json:"createdAt"`
}

type Role struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	UserID     uuid.UUID `json:"-" gorm:"type:uuid;index;not null"`
	Name       string    `json:"name" gorm:"not null"`
	CreatedAt  time.Time `json:"created"`
	ModifiedAt time.Time `json:"modified"`
}
