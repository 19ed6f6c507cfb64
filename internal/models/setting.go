package models

import "time"

// SettingType records the logical kind of a stored setting value.
type SettingType string

const (
	SettingTypeText    SettingType = "text"
	SettingTypeNumber  SettingType = "number"
	SettingTypeBoolean SettingType = "boolean"
	SettingTypeJSON    SettingType = "json"
)

// Setting is one row of the key/value configuration table. Value is always
// stored as a string; Type says how to read it back.
type Setting struct {
	Key         string      `json:"key" gorm:"primaryKey;size:100"`
	Value       string      `json:"value" gorm:"type:text;not null"`
	Type        SettingType `json:"type" gorm:"size:20;not null"`
	Category    string      `json:"category" gorm:"size:50;index;not null"`
	Description *string     `json:"description"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (Setting) TableName() string {
	return "configuracion"
}
