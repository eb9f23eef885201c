package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FnDocument is the financial document header produced from one source file.
// Column names and widths follow the legacy store.
type FnDocument struct {
	DocumentID    string          `gorm:"column:DocumentID;primaryKey;size:150" json:"document_id"`
	DatabaseID    string          `gorm:"column:DatabaseID;size:10;index" json:"database_id"`
	DoFile        string          `gorm:"column:doFile;size:256;index" json:"do_file"`
	DriveID       string          `gorm:"column:DriveID;size:256" json:"drive_id"`
	DoDate        time.Time       `gorm:"column:doDate;type:date" json:"do_date"`
	DoType        string          `gorm:"column:doType;size:64" json:"do_type"`
	DoAccount     string          `gorm:"column:doAccount;size:64" json:"do_account"`
	DoConsecutive string          `gorm:"column:doConsecutive;size:256" json:"do_consecutive"`
	DoIssuer      string          `gorm:"column:doIssuer;size:256" json:"do_issuer"`
	DoReceptor    string          `gorm:"column:doReceptor;size:64" json:"do_receptor"`
	CurrencyID    string          `gorm:"column:CurrencyID;size:64;default:CRC" json:"currency_id"`
	DoSubtotal    decimal.Decimal `gorm:"column:doSubtotal;type:decimal(13,2)" json:"do_subtotal"`
	DoTaxes       decimal.Decimal `gorm:"column:doTaxes;type:decimal(13,2)" json:"do_taxes"`
	DoTotal       decimal.Decimal `gorm:"column:doTotal;type:decimal(13,2)" json:"do_total"`
	DoStatus      string          `gorm:"column:doStatus;size:64;default:NEW" json:"do_status"`
	DoCreatedBy   string          `gorm:"column:doCreatedBy;size:150" json:"do_created_by"`
	DoCreatedAt   time.Time       `gorm:"column:doCreatedAt;autoCreateTime" json:"do_created_at"`
	Bot           string          `gorm:"column:Bot;type:text" json:"bot"`
}

// TableName specifies the legacy table name
func (FnDocument) TableName() string {
	return "fnDocuments"
}

// FnDocumentLn is one invoice line owned by its document. On update-in-place
// all prior lines of the document are replaced, never merged.
type FnDocumentLn struct {
	DocumentLnID   string          `gorm:"column:DocumentLnID;primaryKey;size:60" json:"document_ln_id"`
	DocumentID     string          `gorm:"column:DocumentID;size:150;index" json:"document_id"`
	DatabaseID     string          `gorm:"column:DatabaseID;size:10" json:"database_id"`
	DlNumber       int             `gorm:"column:dlNumber" json:"dl_number"`
	SupplyID       string          `gorm:"column:SupplyID;type:text" json:"supply_id"`
	CabysID        string          `gorm:"column:CabysID;size:50" json:"cabys_id"`
	DlDescription  string          `gorm:"column:dlDescription;size:2000" json:"dl_description"`
	DlQuantity     decimal.Decimal `gorm:"column:dlQuantity;type:decimal(13,2)" json:"dl_quantity"`
	DlUnit         string          `gorm:"column:dlUnit;size:64;default:Unid" json:"dl_unit"`
	DlUnitPrice    decimal.Decimal `gorm:"column:dlUnitPrice;type:decimal(13,2)" json:"dl_unit_price"`
	DlDiscount     decimal.Decimal `gorm:"column:dlDiscount;type:decimal(13,2)" json:"dl_discount"`
	DlSubtotal     decimal.Decimal `gorm:"column:dlSubtotal;type:decimal(13,2)" json:"dl_subtotal"`
	DlTaxes        decimal.Decimal `gorm:"column:dlTaxes;type:decimal(13,2)" json:"dl_taxes"`
	DlTotal        decimal.Decimal `gorm:"column:dlTotal;type:decimal(13,2)" json:"dl_total"`
	DlObservations string          `gorm:"column:dlObservations;size:2000" json:"dl_observations"`
}

// TableName specifies the legacy table name
func (FnDocumentLn) TableName() string {
	return "fnDocumentsLns"
}
