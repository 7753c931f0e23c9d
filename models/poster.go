package models

const (
	DefaultPosterTextSize  = 24
	DefaultPosterTextColor = "#000000"
)

// Poster links a generated image to a saved analysis result. ResultID is a
// weak reference: it is never checked and may point at a result that no
// longer exists.
type Poster struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Name      string `json:"name" gorm:"not null"`
	Text      string `json:"text" gorm:"not null;default:''"`
	PosterURL string `json:"poster_url" gorm:"not null"`
	ImageURL  string `json:"image_url" gorm:"not null;default:''"`
	ResultID  *uint  `json:"result_id"`
	TextSize  int    `json:"text_size" gorm:"not null"`
	TextColor string `json:"text_color" gorm:"not null"`
}
