package models

// BadgeVariant is the visual style a status badge is rendered with.
type BadgeVariant string

const (
	BadgeDefault BadgeVariant = "default"
	BadgePrimary BadgeVariant = "primary"
	BadgeSuccess BadgeVariant = "success"
	BadgeWarning BadgeVariant = "warning"
	BadgeDanger  BadgeVariant = "danger"
	BadgeInfo    BadgeVariant = "info"
)

// DisplayMeta is the label and badge variant for a status.
type DisplayMeta struct {
	Label   string       `json:"label"`
	Variant BadgeVariant `json:"variant"`
}

func (s TransferStatus) Display() DisplayMeta {
	switch s {
	case TransferPending:
		return DisplayMeta{Label: "Pending", Variant: BadgeWarning}
	case TransferInTransit:
		return DisplayMeta{Label: "In Transit", Variant: BadgeInfo}
	case TransferCompleted:
		return DisplayMeta{Label: "Completed", Variant: BadgeSuccess}
	case TransferCancelled:
		return DisplayMeta{Label: "Cancelled", Variant: BadgeDefault}
	}
	return DisplayMeta{Label: "Unknown", Variant: BadgeDefault}
}

func (s ActivityStatus) Display() DisplayMeta {
	switch s {
	case ActivityPending:
		return DisplayMeta{Label: "Pending", Variant: BadgeWarning}
	case ActivityInTransit:
		return DisplayMeta{Label: "In Transit", Variant: BadgeInfo}
	case ActivityCompleted:
		return DisplayMeta{Label: "Completed", Variant: BadgeSuccess}
	case ActivityAlert:
		return DisplayMeta{Label: "Alert", Variant: BadgeDanger}
	case ActivityCancelled:
		return DisplayMeta{Label: "Cancelled", Variant: BadgeDefault}
	}
	return DisplayMeta{Label: "Unknown", Variant: BadgeDefault}
}

func (l StockLevel) Display() DisplayMeta {
	switch l {
	case StockLevelLow:
		return DisplayMeta{Label: "Attention", Variant: BadgeWarning}
	case StockLevelOver:
		return DisplayMeta{Label: "Over Stock", Variant: BadgePrimary}
	case StockLevelNormal:
		return DisplayMeta{Label: "Healthy", Variant: BadgeSuccess}
	}
	return DisplayMeta{Label: "Unknown", Variant: BadgeDefault}
}
