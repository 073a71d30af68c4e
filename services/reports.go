package services

// SalesSummary is the payment-dated revenue projection: how many
// distinct orders received a payment in the range and how much was
// collected.
type SalesSummary struct {
	Order_count   int64   `json:"order_count" bson:"order_count"`
	Total_revenue float64 `json:"total_revenue" bson:"total_revenue"`
}

// ProductSales is one row of the per-product report over closed
// orders. Merged orders contribute nothing directly; their items were
// re-parented onto the surviving order and are counted there.
type ProductSales struct {
	Product_id string  `json:"product_id" bson:"product_id"`
	Name       string  `json:"name" bson:"name"`
	Quantity   int64   `json:"quantity" bson:"quantity"`
	Revenue    float64 `json:"revenue" bson:"revenue"`
}
