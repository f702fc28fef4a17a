package models

import (
	"time"
)

type ContentItem struct {
	ID              string     `json:"id" gorm:"primaryKey;type:text"`
	OwnerArtistID   string     `json:"ownerArtistId" gorm:"type:text;index;not null"`
	RequiredTier    int        `json:"requiredTier" gorm:"not null;default:1"`
	IndividualPrice *float64   `json:"individualPrice"`
	Active          bool       `json:"active" gorm:"not null;default:true"`
	ExpiresAt       *time.Time `json:"expiresAt" gorm:"type:timestamp with time zone"`
	CDate           time.Time  `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type MembershipSubscription struct {
	ID       string     `json:"id" gorm:"primaryKey;type:text"`
	FanID    string     `json:"fanId" gorm:"type:text;index:idx_sub_pair;not null"`
	ArtistID string     `json:"artistId" gorm:"type:text;index:idx_sub_pair;not null"`
	Tier     int        `json:"tier" gorm:"not null;default:1"`
	StartsAt time.Time  `json:"startsAt" gorm:"type:timestamp with time zone;not null"`
	EndsAt   *time.Time `json:"endsAt" gorm:"type:timestamp with time zone"`
	Active   bool       `json:"active" gorm:"not null;default:true;index"`
	CDate    time.Time  `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

// AccessGrant rows are append-only. Nonce deduplicates retried purchase
// requests; the unique index makes a double-append impossible at the store.
type AccessGrant struct {
	ID        string     `json:"id" gorm:"primaryKey;type:text"`
	ActorID   string     `json:"actorId" gorm:"type:text;index:idx_grant_actor_content;uniqueIndex:idx_grant_nonce;not null"`
	ArtistID  string     `json:"artistId" gorm:"type:text;index;not null"`
	ContentID string     `json:"contentId" gorm:"type:text;index:idx_grant_actor_content;uniqueIndex:idx_grant_nonce;not null"`
	Kind      string     `json:"grantKind" gorm:"type:text;not null"`
	GrantedAt time.Time  `json:"grantedAt" gorm:"type:timestamp with time zone;not null"`
	ExpiresAt *time.Time `json:"expiresAt" gorm:"type:timestamp with time zone"`
	Metadata  string     `json:"metadata" gorm:"type:text"`
	Nonce     *string    `json:"nonce" gorm:"type:text;uniqueIndex:idx_grant_nonce"`
	CDate     time.Time  `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Tip struct {
	ID       string    `json:"id" gorm:"primaryKey;type:text"`
	FanID    string    `json:"fanId" gorm:"type:text;index:idx_tip_pair;not null"`
	ArtistID string    `json:"artistId" gorm:"type:text;index:idx_tip_pair;not null"`
	Amount   float64   `json:"amount" gorm:"not null"`
	TippedAt time.Time `json:"tippedAt" gorm:"type:timestamp with time zone;not null"`
	CDate    time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}
