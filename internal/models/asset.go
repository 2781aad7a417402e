package models

import "time"

type AssetStatus string

const (
	AssetStatusProcessing AssetStatus = "processing"
	AssetStatusReady      AssetStatus = "ready"
	AssetStatusDeleted    AssetStatus = "deleted"
)

type Asset struct {
	ID        string
	UserID    string
	Name      string
	Category  string
	Tags      []string
	Bucket    string
	ObjectKey string
	MimeType  string
	SizeBytes int64
	Checksum  []byte
	Status    AssetStatus
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
