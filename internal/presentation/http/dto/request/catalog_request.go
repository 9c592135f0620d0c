package request

// UpsertProductRequest represents a catalog upsert. Price, tax and stock are
// loosely typed strings on purpose: unparseable price/tax default to zero and
// stock clamps to non-negative, as the billing front end has always behaved.
type UpsertProductRequest struct {
	Code  string `json:"code" binding:"omitempty,max=100"`
	Name  string `json:"name" binding:"required,max=255"`
	Price string `json:"price"`
	Tax   string `json:"tax"`
	Stock string `json:"stock"`
}

// UpsertDenominationRequest represents a till denomination upsert
type UpsertDenominationRequest struct {
	Value string `json:"value" binding:"required"`
	Count string `json:"count"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search  string `form:"search"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
