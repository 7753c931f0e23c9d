package models

type Field struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Name  string `json:"field" gorm:"column:field;not null"`
	Words []Word `json:"-" gorm:"foreignKey:FieldID"`
}

// Word is one match term of a Field. Position is 1-based; (FieldID, Position)
// is unique but the number of positions per field is not capped.
type Word struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	FieldID  uint   `json:"field_id" gorm:"not null;index:idx_words_field_position,unique"`
	Position int    `json:"word_no" gorm:"column:word_no;not null;index:idx_words_field_position,unique"`
	Term     string `json:"field_word" gorm:"column:field_word;not null"`
}
