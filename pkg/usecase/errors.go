package usecase

// Context keys for error values
const (
	GroupIDKey        = "group_id"
	ItemNumberKey     = "item_number"
	DocumentNumberKey = "document_number"
	TargetIDKey       = "target_id"
	RowIDKey          = "row_id"
)
