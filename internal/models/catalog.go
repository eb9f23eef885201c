package models

// BcItem is one entry of the tenant-scoped product catalog. Read-only input
// to the pipeline; itCode (SKU) and itTitle feed the line matcher.
type BcItem struct {
	ItemID     string `gorm:"column:ItemID;primaryKey;size:20" json:"item_id"`
	DatabaseID string `gorm:"column:DatabaseID;size:10;index" json:"database_id"`
	ItCode     string `gorm:"column:itCode;size:50" json:"it_code"`
	CabysID    string `gorm:"column:CabysID;size:20" json:"cabys_id"`
	ItTitle    string `gorm:"column:itTitle;size:300" json:"it_title"`
}

// TableName specifies the legacy table name
func (BcItem) TableName() string {
	return "bcItems"
}

// PjProject is a construction project; title plus address is the key the
// address matcher scores against.
type PjProject struct {
	ProjectID  string `gorm:"column:ProjectID;primaryKey;size:10" json:"project_id"`
	DatabaseID string `gorm:"column:DatabaseID;size:10;index" json:"database_id"`
	PjTitle    string `gorm:"column:pjTitle;size:150" json:"pj_title"`
	PjAddress  string `gorm:"column:pjAddress;size:300" json:"pj_address"`
}

// TableName specifies the legacy table name
func (PjProject) TableName() string {
	return "pjProjects"
}
