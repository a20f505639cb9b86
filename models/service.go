package models

// Service is a catalog entry offered by the salon. Reference data: the
// booking flow only copies its name into appointments and requests.
type Service struct {
	ID          string  `bson:"id" json:"id"`
	Name        string  `bson:"name" json:"name"`
	Description string  `bson:"description" json:"description"`
	Price       float64 `bson:"price" json:"price"`
	DurationMin int     `bson:"duration_min" json:"duration_min"`
	Badge       string  `bson:"badge,omitempty" json:"badge,omitempty"` // e.g. "Novo", "Popular", "Promo"
}
