// Package domain defines the persistence models for the marketplace
// directory: coffee farmers and roasters. Records are stored as BSON
// documents; the repository layer owns the lifecycle fields embedded in
// Meta (identity, timestamps, active flag).
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Meta carries the repository-owned lifecycle fields shared by every
// stored record. It is embedded inline so the fields live at the top
// level of the BSON document.
//
// Fields:
//   - ID: ObjectID primary key, assigned by the store on insert.
//   - CreatedAt: set once at creation, never changed afterwards.
//   - UpdatedAt: refreshed on every mutation, including soft delete.
//   - IsActive: true on creation; set to false by delete. Inactive
//     records are excluded from every read path but never removed
//     from storage.
type Meta struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
	IsActive  bool               `json:"isActive" bson:"isActive"`
}

// DocMeta exposes the embedded lifecycle fields to the generic
// repository without reflection.
func (m *Meta) DocMeta() *Meta { return m }

// Farmer represents a coffee-producing farm listed in the directory.
//
// Location is a single display string (e.g. "São Paulo, Brazil") and is
// part of the searchable field set together with Name and CoffeeTypes.
type Farmer struct {
	Meta `bson:",inline"`

	Name             string   `json:"name" bson:"name"`
	Email            string   `json:"email" bson:"email"`
	Phone            string   `json:"phone,omitempty" bson:"phone,omitempty"`
	Location         string   `json:"location" bson:"location"`
	FarmSizeHectares float64  `json:"farmSizeHectares,omitempty" bson:"farmSizeHectares,omitempty"`
	CoffeeTypes      []string `json:"coffeeTypes,omitempty" bson:"coffeeTypes,omitempty"`
	Certifications   []string `json:"certifications,omitempty" bson:"certifications,omitempty"`
	Rating           float64  `json:"rating" bson:"rating"`
	TotalOrders      int      `json:"totalOrders" bson:"totalOrders"`
}

// CollectionFarmers is the store collection holding Farmer documents.
const CollectionFarmers = "farmers"

// FarmerSearchFields is the fixed set of text fields matched by the
// farmer search operation.
var FarmerSearchFields = []string{"name", "location", "coffeeTypes"}

// Roaster represents a coffee roasting business listed in the directory.
type Roaster struct {
	Meta `bson:",inline"`

	BusinessName       string   `json:"businessName" bson:"businessName"`
	Email              string   `json:"email" bson:"email"`
	Phone              string   `json:"phone,omitempty" bson:"phone,omitempty"`
	Location           string   `json:"location" bson:"location"`
	BusinessType       string   `json:"businessType" bson:"businessType"`
	Specialties        []string `json:"specialties,omitempty" bson:"specialties,omitempty"`
	RoastingCapacityKg float64  `json:"roastingCapacityKg,omitempty" bson:"roastingCapacityKg,omitempty"`
	SubscriptionTier   string   `json:"subscriptionTier" bson:"subscriptionTier"`
	Rating             float64  `json:"rating" bson:"rating"`
	TotalOrders        int      `json:"totalOrders" bson:"totalOrders"`
}

// CollectionRoasters is the store collection holding Roaster documents.
const CollectionRoasters = "roasters"

// RoasterSearchFields is the fixed set of text fields matched by the
// roaster search operation.
var RoasterSearchFields = []string{"businessName", "location", "specialties"}
