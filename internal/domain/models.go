package domain

// Role values accepted at registration. Admins are seeded, never registered.
const (
	RoleVictim       = "victim"
	RoleManufacturer = "manufacturer"
	RoleAdmin        = "admin"
)

// Order status lifecycle. Pending is the sole creation state.
const (
	OrderPending        = "pending"
	OrderConfirmed      = "confirmed"
	OrderReadyForPickup = "ready_for_pickup"
	OrderCompleted      = "completed"
	OrderCancelled      = "cancelled"
)

type Product struct {
	ID             string   `db:"id" json:"id"`
	ManufacturerID string   `db:"manufacturer_id" json:"manufacturerId"`
	Title          string   `db:"title" json:"title"`
	Description    string   `db:"description" json:"description"`
	Category       string   `db:"category" json:"category"`
	Price          float64  `db:"price" json:"price"`
	OriginalPrice  float64  `db:"original_price" json:"originalPrice,omitempty"`
	Quantity       int      `db:"quantity" json:"quantity"`
	Images         []string `db:"-" json:"images"`
	ImagesJSON     string   `db:"images_json" json:"-"`
	Weight         float64  `db:"weight" json:"weight,omitempty"`
	Dimensions     string   `db:"dimensions" json:"dimensions,omitempty"`
	MinOrder       int      `db:"min_order" json:"minOrder,omitempty"`
	MaxOrder       int      `db:"max_order" json:"maxOrder,omitempty"`
	Tags           []string `db:"-" json:"tags"`
	TagsJSON       string   `db:"tags_json" json:"-"`
	IsApproved     bool     `db:"is_approved" json:"isApproved"`
	MadeInUSA      bool     `db:"made_in_usa" json:"madeInUSA"`
	CreatedAt      string   `db:"created_at" json:"createdAt"`
	UpdatedAt      string   `db:"updated_at" json:"updatedAt"`

	// Joined at read time for listings; not a stored column.
	ManufacturerName string `db:"manufacturer_name" json:"manufacturerName,omitempty"`
}

// OrderItem is a frozen snapshot taken at order time. Price and title are
// copied from the product so later edits never rewrite order history.
type OrderItem struct {
	ProductID string  `db:"product_id" json:"productId"`
	Quantity  int     `db:"quantity" json:"quantity"`
	Price     float64 `db:"price" json:"price"`
	Title     string  `db:"title" json:"title"`
}

type Order struct {
	ID               string      `db:"id" json:"id"`
	UserID           string      `db:"user_id" json:"userId"`
	Items            []OrderItem `db:"-" json:"items"`
	TotalAmount      float64     `db:"total_amount" json:"totalAmount"`
	Status           string      `db:"status" json:"status"`
	PickupLocationID string      `db:"pickup_location_id" json:"pickupLocationId"`
	Notes            string      `db:"notes" json:"notes,omitempty"`
	CreatedAt        string      `db:"created_at" json:"createdAt"`
	UpdatedAt        string      `db:"updated_at" json:"updatedAt"`
}

type DisasterZone struct {
	ID          string   `db:"id" json:"id"`
	Name        string   `db:"name" json:"name"`
	Description string   `db:"description" json:"description"`
	ZipCodes    []string `db:"-" json:"zipCodes"`
	ZipsJSON    string   `db:"zip_codes_json" json:"-"`
	Cities      []string `db:"-" json:"cities"`
	CitiesJSON  string   `db:"cities_json" json:"-"`
	States      []string `db:"-" json:"states"`
	StatesJSON  string   `db:"states_json" json:"-"`
	IsActive    bool     `db:"is_active" json:"isActive"`
	StartDate   string   `db:"start_date" json:"startDate"`
	EndDate     string   `db:"end_date" json:"endDate,omitempty"`
	CreatedAt   string   `db:"created_at" json:"createdAt"`
	UpdatedAt   string   `db:"updated_at" json:"updatedAt"`
}

type PickupLocation struct {
	ID           string   `db:"id" json:"id"`
	Name         string   `db:"name" json:"name"`
	Address      string   `db:"address" json:"address"`
	City         string   `db:"city" json:"city"`
	State        string   `db:"state" json:"state"`
	ZipCode      string   `db:"zip_code" json:"zipCode"`
	Latitude     float64  `db:"latitude" json:"latitude,omitempty"`
	Longitude    float64  `db:"longitude" json:"longitude,omitempty"`
	ContactPhone string   `db:"contact_phone" json:"contactPhone,omitempty"`
	ContactEmail string   `db:"contact_email" json:"contactEmail,omitempty"`
	Hours        string   `db:"hours" json:"hours"`
	ZoneIDs      []string `db:"-" json:"disasterZoneIds"`
	ZoneIDsJSON  string   `db:"zone_ids_json" json:"-"`
	IsActive     bool     `db:"is_active" json:"isActive"`
	CreatedAt    string   `db:"created_at" json:"createdAt"`
	UpdatedAt    string   `db:"updated_at" json:"updatedAt"`
}

type DashboardStats struct {
	TotalUsers            int     `json:"totalUsers"`
	TotalVictims          int     `json:"totalVictims"`
	TotalManufacturers    int     `json:"totalManufacturers"`
	TotalProducts         int     `json:"totalProducts"`
	TotalOrders           int     `json:"totalOrders"`
	TotalValue            float64 `json:"totalValue"`
	ActiveDisasterZones   int     `json:"activeDisasterZones"`
	ActivePickupLocations int     `json:"activePickupLocations"`
}
