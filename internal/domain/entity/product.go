package entity

import "time"

// Product types
const (
	ProductTypeArtesanal   = "artesanal"
	ProductTypeSegundaMano = "segundaMano"
)

// Product categories
const (
	CategoryJoyeria          = "joyeria"
	CategoryDulces           = "dulces"
	CategoryArteTaino        = "arteTaino"
	CategoryPinturas         = "pinturas"
	CategoryArtesaniaGeneral = "artesaniaGeneral"
	CategoryRopa             = "ropa"
	CategoryElectronica      = "electronica"
	CategoryMuebles          = "muebles"
	CategoryLibros           = "libros"
	CategoryDeportes         = "deportes"
	CategoryOtros            = "otros"
)

// Product is a marketplace listing. SellerName is a display snapshot
// taken at publish time.
type Product struct {
	ID          string    `json:"id" firestore:"id"`
	Title       string    `json:"title" firestore:"title"`
	Description string    `json:"description" firestore:"description"`
	Price       float64   `json:"price" firestore:"price"`
	ImageURLs   []string  `json:"image_urls" firestore:"imageUrls"`
	Type        string    `json:"type" firestore:"type"`
	Category    string    `json:"category" firestore:"category"`
	Location    string    `json:"location" firestore:"location"`
	SellerID    string    `json:"seller_id" firestore:"sellerId"`
	SellerName  string    `json:"seller_name" firestore:"sellerName"`
	IsNew       bool      `json:"is_new" firestore:"isNew"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt,serverTimestamp"`
}
