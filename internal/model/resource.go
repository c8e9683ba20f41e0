package model

import "time"

// ResourceKind distinguishes the two bookable resource types.
type ResourceKind string

const (
	KindRoom      ResourceKind = "ROOM"
	KindTransport ResourceKind = "TRANSPORT"
)

// Valid reports whether k is one of the known resource kinds.
func (k ResourceKind) Valid() bool {
	return k == KindRoom || k == KindTransport
}

// Resource is a bookable entity: a meeting room or a vehicle.
// Resources are managed by the admin flow; the booking engine treats
// them as immutable lookup data during conflict checks.
type Resource struct {
	ID        int64        `gorm:"primaryKey" json:"id"`
	Kind      ResourceKind `gorm:"size:16;index;not null" json:"kind"`
	Name      string       `gorm:"size:128;uniqueIndex;not null" json:"name"`
	Capacity  int          `gorm:"not null" json:"capacity"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null" json:"updated_at"`

	// Associations
	Bookings []Booking `gorm:"foreignKey:ResourceID" json:"-"`
}
