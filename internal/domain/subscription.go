package domain

import "time"

// Subscription: UserID follows AuthorID. Self-follow is rejected by a CHECK
// constraint as well as by the relation repository.
type Subscription struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;index;uniqueIndex:idx_subscription_user_author;check:chk_subscription_not_self,user_id <> author_id"`
	AuthorID  int64     `json:"author_id" gorm:"not null;index;uniqueIndex:idx_subscription_user_author"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	User   *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Author *User `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
