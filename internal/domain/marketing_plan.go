package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/planora/planora-backend/internal/modules/plan"
)

// MarketingPlan is the persisted artifact: one owner, one immutable business
// context, one nine-section document. The document column is always written
// whole; sections are replaced in memory and the full document saved back.
type MarketingPlan struct {
	ID       uuid.UUID                               `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID                               `gorm:"type:uuid;index;not null" json:"user_id"`
	User     *User                                   `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Title    string                                  `gorm:"not null;column:title" json:"title"`
	Context  datatypes.JSONType[plan.BusinessContext] `gorm:"column:context" json:"context"`
	Document datatypes.JSONType[plan.Document]        `gorm:"column:document" json:"document"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (MarketingPlan) TableName() string { return "marketing_plan" }
