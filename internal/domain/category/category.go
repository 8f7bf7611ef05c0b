package category

import (
	"time"

	"github.com/oklog/ulid/v2"
)

type Category struct {
	Id        ulid.ULID `gorm:"type:varchar(26);primaryKey" json:"id"`
	UserId    ulid.ULID `gorm:"type:varchar(26);not null;index:idx_categories_user_name,unique" json:"userId"`
	Name      string    `gorm:"type:varchar(100);not null;index:idx_categories_user_name,unique" json:"name"`
	Icon      string    `gorm:"type:varchar(50)" json:"icon"`
	CreatedAt time.Time `gorm:"autoCreateTime;not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null" json:"updatedAt"`
}

func (Category) TableName() string {
	return "categories"
}
