package models

import "github.com/pgvector/pgvector-go"

// SettingMetadata mirrors a pg_settings row enriched with a fixed-dimension
// embedding of its metadata text. Reference data loaded once by the embedding
// pipeline; the application only reads it.
type SettingMetadata struct {
	Name         string          `gorm:"primaryKey;type:text" json:"name"`
	Embedding    pgvector.Vector `gorm:"type:vector(384)" json:"-"`
	CurrentValue string          `gorm:"type:text" json:"current_value"`
	DefaultValue string          `gorm:"type:text" json:"default_value"`
	ShortDesc    string          `gorm:"type:text" json:"short_desc"`
	Context      string          `gorm:"type:text" json:"context"`
	Vartype      string          `gorm:"type:text" json:"vartype"`
	MinVal       string          `gorm:"type:text" json:"min_val"`
	MaxVal       string          `gorm:"type:text" json:"max_val"`
}

// TableName keeps the table shared with the embedding loader.
func (SettingMetadata) TableName() string {
	return "pg_settings_metadata_embeddings"
}

// Insight holds the generated guidance text for one setting.
type Insight struct {
	SettingsName string `gorm:"primaryKey;type:text" json:"settings_name"`
	AIInsights   string `gorm:"type:text" json:"ai_insights"`
}

func (Insight) TableName() string {
	return "insights"
}

// InsightEmbedding stores the embedding of a setting's insight text.
type InsightEmbedding struct {
	SettingsName string          `gorm:"primaryKey;type:text" json:"settings_name"`
	Embedding    pgvector.Vector `gorm:"type:vector(384)" json:"-"`
}

func (InsightEmbedding) TableName() string {
	return "insight_embeddings"
}
