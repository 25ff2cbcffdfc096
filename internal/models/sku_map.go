package models

// SKUMap links a product group to its shop variant for the apply step.
type SKUMap struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	GroupID     string `json:"groupid" gorm:"column:groupid;index;not null"`
	Code        string `json:"code" gorm:"index"`
	VariantLink string `json:"variantlink" gorm:"column:variantlink;index"`
}
