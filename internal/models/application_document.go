package models

import "gorm.io/gorm"

const (
	DocumentPDF   = "PDF"
	DocumentImage = "IMAGE"
	DocumentOther = "OTHER"
)

// ApplicationDocument is an append-only upload attached to a draft application.
// Content is frozen along with the rest of the application once it is submitted.
type ApplicationDocument struct {
	gorm.Model

	ApplicationID uint   `gorm:"not null;index"`
	Filename      string `gorm:"not null"`
	MimeType      string `gorm:"not null"`
	Kind          string `gorm:"not null;default:OTHER"`
	Content       []byte

	// Relationships
	Application Application `gorm:"foreignKey:ApplicationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
