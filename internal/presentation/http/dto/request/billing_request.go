package request

// CartLineRequest is one product/quantity row of the checkout form
type CartLineRequest struct {
	ProductCode string `json:"product_code"`
	Quantity    int    `json:"quantity"`
}

// SettleRequest represents a checkout submission. PaidAmount is a raw string
// parsed permissively by the settlement engine. TillCounts carries an
// optional manual recount of denomination availability keyed by face value.
type SettleRequest struct {
	CustomerEmail string            `json:"customer_email" binding:"required"`
	PaidAmount    string            `json:"paid_amount"`
	Lines         []CartLineRequest `json:"lines" binding:"required"`
	TillCounts    map[int64]int     `json:"till_counts"`
}

// PurchaseFilterRequest represents purchase history filter parameters
type PurchaseFilterRequest struct {
	Email   string `form:"email"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
