package domain

import "time"

// Ingredient is identified by the (name, measurement unit) pair:
// "sugar (g)" and "sugar (tbsp)" are different ingredients.
type Ingredient struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	Name            string    `json:"name" gorm:"size:128;not null;uniqueIndex:idx_ingredient_name_unit"`
	MeasurementUnit string    `json:"measurement_unit" gorm:"size:64;not null;uniqueIndex:idx_ingredient_name_unit"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}
