package models

// Category groups posts by topic; titles are unique at creation time.
type Category struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"size:100;uniqueIndex"`
	Description string `json:"description"`
}

// CreateCategoryRequest defines the request body for creating a category
type CreateCategoryRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=100"`
	Description string `json:"description,omitempty"`
}

// UpdateCategoryRequest defines the request body for updating a category
type UpdateCategoryRequest struct {
	Title       string `json:"title" validate:"omitempty,min=1,max=100"`
	Description string `json:"description,omitempty"`
}
