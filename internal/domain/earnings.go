package domain

// EarningsSummary is the seller-facing rollup derived by scanning orders and
// payouts. Only completed orders contribute to earnings.
type EarningsSummary struct {
	SellerID         string  `json:"seller_id"`
	TotalEarnings    float64 `json:"total_earnings"`
	CompletedOrders  int     `json:"completed_orders"`
	PendingPayouts   int     `json:"pending_payouts"`
	CompletedPayouts int     `json:"completed_payouts"`
}

// OrderStatistics is the admin-facing rollup across all orders and payouts.
type OrderStatistics struct {
	TotalOrders       int     `json:"total_orders"`
	CompletedOrders   int     `json:"completed_orders"`
	TotalRevenue      float64 `json:"total_revenue"`
	PlatformFees      float64 `json:"platform_fees"`
	SellerPayouts     float64 `json:"seller_payouts"`
	AverageOrderValue float64 `json:"average_order_value"`
}
