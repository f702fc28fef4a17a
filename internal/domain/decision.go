package domain

// DenialReason tells the caller why access was refused. Denials are data,
// not errors; callers branch on the reason to decide whether to offer a
// purchase upsell.
type DenialReason string

const (
	DenialContentInactive DenialReason = "ContentInactive"
	DenialNoMembership    DenialReason = "NoMembership"
	DenialLimitExceeded   DenialReason = "LimitExceeded"
)

// PurchaseOption describes the standalone-purchase remediation attached to
// a denial when the content item carries an individual price.
type PurchaseOption struct {
	Price float64 `json:"price"`
}

// Decision is the outcome of an entitlement evaluation.
type Decision struct {
	Granted      bool            `json:"granted"`
	Reason       DenialReason    `json:"reason,omitempty"`
	Message      string          `json:"message,omitempty"`
	RequiredTier int             `json:"requiredTier,omitempty"`
	Grant        *AccessGrant    `json:"grant,omitempty"`
	Purchase     *PurchaseOption `json:"purchase,omitempty"`
}
