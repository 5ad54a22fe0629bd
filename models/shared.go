package models

import "time"

// Address is a postal address embedded in clients.
type Address struct {
	Street     string `bson:"street" json:"street"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	City       string `bson:"city" json:"city"`
	Country    string `bson:"country" json:"country"`
}

// StoredFile is a file uploaded to the object store.
type StoredFile struct {
	Name       string    `bson:"name" json:"name"`
	Kind       string    `bson:"kind,omitempty" json:"kind,omitempty"` // e.g. "id_card", "registration", "photo"
	URL        string    `bson:"url" json:"url"`
	PublicID   string    `bson:"publicId" json:"publicId"`
	Format     string    `bson:"format,omitempty" json:"format,omitempty"`
	Bytes      int       `bson:"bytes" json:"bytes"`
	UploadedAt time.Time `bson:"uploadedAt" json:"uploadedAt"`
}

// Identity is the authenticated account resolved from the identity provider.
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

// Page holds list paging parameters.
type Page struct {
	Limit int64 `form:"limit" json:"limit"`
	Skip  int64 `form:"skip" json:"skip"`
}
