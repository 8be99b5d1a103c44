package domain

// Record shapes returned by the ERP backend. Fields mirror the backend's
// JSON; the controller never reshapes them.

type Address struct {
	City      string  `json:"city"`
	State     string  `json:"state"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Shipment struct {
	ID                     string   `json:"id"`
	Status                 string   `json:"status"`
	CreatedAt              string   `json:"createdAt"`
	UpdatedAt              string   `json:"updatedAt,omitempty"`
	DeliveredAt            string   `json:"deliveredAt,omitempty"`
	EstimatedTimeOfArrival string   `json:"estimatedTimeOfArrival"`
	FromID                 string   `json:"fromId"`
	ToID                   string   `json:"toId"`
	CurrentLocation        *Address `json:"currentLocation,omitempty"`
}

type Retailer struct {
	ID        string  `json:"id"`
	Address   Address `json:"address"`
	ManagerID string  `json:"managerId,omitempty"`
}

type DistributionCenter struct {
	ID        string  `json:"id"`
	Address   Address `json:"address"`
	ContactID string  `json:"contactId,omitempty"`
}

type Product struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SupplierID string `json:"supplierId,omitempty"`
}

// InventoryItem is one line of a retailer's stock.
type InventoryItem struct {
	ID           string `json:"id"`
	ProductID    string `json:"productId"`
	Quantity     int    `json:"quantity"`
	LocationID   string `json:"locationId"`
	LocationType string `json:"locationType"`
}

// ERPUser is the backend-side user record tied to a demo, kept opaque to
// callers except for its identifying fields.
type ERPUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	DemoID   string `json:"demoId,omitempty"`
}
