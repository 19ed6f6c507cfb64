package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"desguace/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("settings: key not found")

// Entry is a configuration row with its value already decoded.
type Entry struct {
	Key         string    `json:"key"`
	Value       Value     `json:"value"`
	Category    string    `json:"category"`
	Description *string   `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (e Entry) Type() models.SettingType {
	return e.Value.Kind()
}

// Store reads and writes the configuration table.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// GetByCategory returns every entry of the category keyed by setting key.
// A category without rows yields an empty map.
func (s *Store) GetByCategory(ctx context.Context, category string) (map[string]Entry, error) {
	var rows []models.Setting
	if err := s.db.WithContext(ctx).Where(map[string]interface{}{"category": category}).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("settings: query category %q: %w", category, err)
	}

	entries := make(map[string]Entry, len(rows))
	for _, row := range rows {
		entry, err := toEntry(row)
		if err != nil {
			return nil, fmt.Errorf("settings: decode %q: %w", row.Key, err)
		}
		entries[row.Key] = entry
	}
	return entries, nil
}

func (s *Store) Get(ctx context.Context, key string) (Entry, error) {
	var row models.Setting
	err := s.db.WithContext(ctx).Where(map[string]interface{}{"key": key}).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("settings: query %q: %w", key, err)
	}
	return toEntry(row)
}

func (s *Store) List(ctx context.Context) ([]Entry, error) {
	var rows []models.Setting
	err := s.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "category"}}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("settings: list: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entry, err := toEntry(row)
		if err != nil {
			return nil, fmt.Errorf("settings: decode %q: %w", row.Key, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Upsert writes key in a single INSERT ... ON CONFLICT statement. An existing
// row gets the new value, type, category and updated_at; its description is
// kept. Concurrent writers to one key resolve last-write-wins.
func (s *Store) Upsert(ctx context.Context, key string, value Value, category, description string) error {
	if key == "" {
		return errors.New("settings: empty key")
	}

	raw, typ := value.Encode()
	row := models.Setting{
		Key:      key,
		Value:    raw,
		Type:     typ,
		Category: category,
	}
	if description != "" {
		row.Description = &description
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "type", "category", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("settings: upsert %q: %w", key, err)
	}
	return nil
}

// Default is a setting written by Seed when it does not exist yet.
type Default struct {
	Key         string
	Value       any
	Category    string
	Description string
}

// Seed inserts the defaults whose keys are missing and leaves existing rows
// untouched. The type tag is inferred from each Go value. It returns the
// number of rows created.
func (s *Store) Seed(ctx context.Context, defaults []Default) (int, error) {
	created := 0
	for _, d := range defaults {
		value, err := Infer(d.Value)
		if err != nil {
			return created, fmt.Errorf("settings: default %q: %w", d.Key, err)
		}

		raw, typ := value.Encode()
		row := models.Setting{Key: d.Key, Value: raw, Type: typ, Category: d.Category}
		if d.Description != "" {
			desc := d.Description
			row.Description = &desc
		}

		result := s.db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "key"}}, DoNothing: true}).
			Create(&row)
		if result.Error != nil {
			return created, fmt.Errorf("settings: seed %q: %w", d.Key, result.Error)
		}
		created += int(result.RowsAffected)
	}
	return created, nil
}

func toEntry(row models.Setting) (Entry, error) {
	value, err := Decode(row.Value, row.Type)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		Key:         row.Key,
		Value:       value,
		Category:    row.Category,
		Description: row.Description,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}
