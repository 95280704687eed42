package models

import "time"

// Product is a catalog item. ImagePublicID is set only when the image is
// hosted by the image store and must be deleted with the product.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Category      string    `json:"category"`
	Stock         int       `json:"stock"`
	Image         string    `json:"image"`
	ImagePublicID *string   `json:"imagePublicId,omitempty"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ProductPatch is a partial product update; nil fields are not touched.
type ProductPatch struct {
	Name          *string
	Price         *float64
	Category      *string
	Stock         *int
	Image         *string
	ImagePublicID *string
	Description   *string
}

// Apply copies every non-nil field of the patch onto p.
func (pp *ProductPatch) Apply(p *Product) {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Price != nil {
		p.Price = *pp.Price
	}
	if pp.Category != nil {
		p.Category = *pp.Category
	}
	if pp.Stock != nil {
		p.Stock = *pp.Stock
	}
	if pp.Image != nil {
		p.Image = *pp.Image
	}
	if pp.ImagePublicID != nil {
		id := *pp.ImagePublicID
		p.ImagePublicID = &id
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
}
