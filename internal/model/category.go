package model

import "github.com/google/uuid"

// CategoryFields are the columns shared by both category trees.
type CategoryFields struct {
	Name     string     `gorm:"type:varchar(255);not null" json:"name"`
	Code     string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	ParentID *uuid.UUID `gorm:"type:uuid;index" json:"parent_id"`
}

// Tree exposes the shared columns of an embedding category.
func (f *CategoryFields) Tree() *CategoryFields {
	return f
}

// MaterialCategory groups materials; ParentID forms a tree.
type MaterialCategory struct {
	BaseModel
	CategoryFields
	Parent *MaterialCategory `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
}

// ProductCategory groups products; ParentID forms a tree.
type ProductCategory struct {
	BaseModel
	CategoryFields
	Parent *ProductCategory `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
}

// Category is the tree node view shared by both category tables.
type Category interface {
	MaterialCategory | ProductCategory
}
