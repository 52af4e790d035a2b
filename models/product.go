package models

// Product 营养查询结果，每个字段都可能缺失
type Product struct {
	Barcode  string   `json:"barcode,omitempty"`
	Name     *string  `json:"name"`
	Brand    *string  `json:"brand"`
	Category *string  `json:"category"`
	Calories *float64 `json:"calories"`
	Sugar    *float64 `json:"sugar"`
	Protein  *float64 `json:"protein"`
}
