package models

import "time"

// LicenseDuration is the label encoded into a key's type segment.
type LicenseDuration string

const (
	Duration1H       LicenseDuration = "1h"
	Duration2H       LicenseDuration = "2h"
	Duration3H       LicenseDuration = "3h"
	Duration1D       LicenseDuration = "1d"
	Duration3D       LicenseDuration = "3d"
	Duration7D       LicenseDuration = "7d"
	Duration14D      LicenseDuration = "14d"
	Duration21D      LicenseDuration = "21d"
	Duration1M       LicenseDuration = "1m"
	Duration3M       LicenseDuration = "3m"
	Duration6M       LicenseDuration = "6m"
	Duration1Y       LicenseDuration = "1y"
	DurationInfinity LicenseDuration = "infinity"
)

// LicenseKey is one issued key. Smart keys are verifiable offline by
// recomputing their checksum, so a record may be created lazily the
// first time such a key is claimed.
type LicenseKey struct {
	Code           string          `json:"code"`
	DurationLabel  LicenseDuration `json:"duration_label"`
	IsUsed         bool            `json:"is_used"`
	UsedByUserID   string          `json:"used_by_user_id,omitempty"`
	UsedByUsername string          `json:"used_by_username,omitempty"`
	IsRevoked      bool            `json:"is_revoked"`
	CreatedAt      time.Time       `json:"created_at"`
}
