package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShortIDWidth is the legacy column width for movement/price id fields.
// Ids that exceed it are truncated, never rejected.
const ShortIDWidth = 10

// IcMovement is an inventory-ledger entry derived from one matched invoice
// line. Never created for lines that resolved to the UNKNOWN sentinel.
type IcMovement struct {
	MovementID   string          `gorm:"column:MovementID;primaryKey;size:10" json:"movement_id"`
	IsDeleted    bool            `gorm:"column:isDeleted;default:false" json:"is_deleted"`
	DatabaseID   string          `gorm:"column:DatabaseID;size:10;index" json:"database_id"`
	OriginID     string          `gorm:"column:OriginID;size:10" json:"origin_id"`
	ProjectID    string          `gorm:"column:ProjectID;size:10" json:"project_id"`
	ItemID       string          `gorm:"column:ItemID;size:10" json:"item_id"`
	DocumentLnID string          `gorm:"column:DocumentLnID;size:10;index" json:"document_ln_id"`
	MvDate       time.Time       `gorm:"column:mvDate;autoCreateTime" json:"mv_date"`
	MvAction     string          `gorm:"column:mvAction;size:10" json:"mv_action"`
	MvQuantity   decimal.Decimal `gorm:"column:mvQuantity;type:decimal(13,2)" json:"mv_quantity"`
	MvStatus     string          `gorm:"column:mvStatus;size:45;default:Applied" json:"mv_status"`
	MvNotes      string          `gorm:"column:mvNotes;type:text" json:"mv_notes"`
	MvCreatedBy  string          `gorm:"column:mvCreatedby;size:10" json:"mv_createdby"`
	MvCreatedAt  time.Time       `gorm:"column:mvCreateddate;autoCreateTime" json:"mv_createddate"`
}

// TableName specifies the legacy table name
func (IcMovement) TableName() string {
	return "icMovements"
}

// IcPrice is the pricing-ledger entry created 1:1 with each IcMovement.
type IcPrice struct {
	PriceID       string          `gorm:"column:PriceID;primaryKey;size:10" json:"price_id"`
	IsDeleted     bool            `gorm:"column:isDeleted;default:false" json:"is_deleted"`
	DatabaseID    string          `gorm:"column:DatabaseID;size:10;index" json:"database_id"`
	ItemID        string          `gorm:"column:ItemID;size:10" json:"item_id"`
	ProjectID     string          `gorm:"column:ProjectID;size:10" json:"project_id"`
	MovementID    string          `gorm:"column:MovementID;size:10" json:"movement_id"`
	PrTitle       string          `gorm:"column:prTitle;size:150" json:"pr_title"`
	PrDescription string          `gorm:"column:prDescription;type:text" json:"pr_description"`
	PrQuantity    decimal.Decimal `gorm:"column:prQuantity;type:decimal(13,2)" json:"pr_quantity"`
	PrPrice       decimal.Decimal `gorm:"column:prPrice;type:decimal(13,2)" json:"pr_price"`
	PrTax         decimal.Decimal `gorm:"column:prTax;type:decimal(13,2)" json:"pr_tax"`
	PrTotal       decimal.Decimal `gorm:"column:prTotal;type:decimal(13,2)" json:"pr_total"`
	PrCreatedBy   string          `gorm:"column:prCreatedby;size:10" json:"pr_createdby"`
	PrCreatedAt   time.Time       `gorm:"column:prCreateddate;autoCreateTime" json:"pr_createddate"`
}

// TableName specifies the legacy table name
func (IcPrice) TableName() string {
	return "icPrices"
}
