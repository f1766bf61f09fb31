package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Generation type and face-lock values the admin listing filters on. The
// generation pipeline writes more values; only these matter here.
const (
	TypeGenTxt2Img   = "txt2img"
	FacelockTypeNone = "None"
)

// Image represents one generated image, written by the generation pipeline.
// Gallery fields (shared_gallery, category, gallery_image_likes) are the only
// fields this service mutates.
type Image struct {
	ID                uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID            uuid.UUID `json:"user_id" gorm:"type:char(36);not null;index"`
	Prompt            string    `json:"prompt" gorm:"type:text"`
	TypeGen           string    `json:"type_gen" gorm:"size:32;index"`
	FacelockType      string    `json:"facelock_type" gorm:"size:32;default:'None'"`
	ResultURL         string    `json:"result_url" gorm:"size:512"`
	SharedGallery     bool      `json:"shared_gallery" gorm:"default:false;index"`
	Category          string    `json:"category" gorm:"size:64"`
	GalleryImageLikes int       `json:"gallery_image_likes" gorm:"default:0"`
	CreatedAt         time.Time `json:"created_at" gorm:"index"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (i *Image) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// GenerationSeconds derives how long the generation took. The pipeline
// creates the row when the job starts and updates it when the result lands.
func (i *Image) GenerationSeconds() float64 {
	return i.UpdatedAt.Sub(i.CreatedAt).Seconds()
}
