package domain

// EntityType classifies a node in the knowledge graph.
type EntityType string

const (
	EntityBook       EntityType = "book"
	EntityAuthor     EntityType = "author"
	EntityTranslator EntityType = "translator"
	EntityPublisher  EntityType = "publisher"
	EntitySeries     EntityType = "series"
)

// String returns the string representation of the entity type.
func (t EntityType) String() string {
	return string(t)
}

// IsValid checks if the entity type is a recognized value.
func (t EntityType) IsValid() bool {
	switch t {
	case EntityBook, EntityAuthor, EntityTranslator, EntityPublisher, EntitySeries:
		return true
	default:
		return false
	}
}

// Entity is a node in the knowledge graph. Book entities carry the full
// record snapshot in Attributes; people and organizations only the name.
type Entity struct {
	ID         string         `json:"id"`
	Type       EntityType     `json:"type"`
	Name       string         `json:"name"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// RelationType describes one direction of an edge in the knowledge graph.
type RelationType string

const (
	RelWrittenBy    RelationType = "written_by"
	RelWrite        RelationType = "write"
	RelPublishedBy  RelationType = "published_by"
	RelPublish      RelationType = "publish"
	RelTranslatedBy RelationType = "translated_by"
	RelTranslate    RelationType = "translate"
	RelBelongsTo    RelationType = "belongs_to"
	RelContains     RelationType = "contains"
)

// Reciprocal returns the inverse relation type, or "" if none exists.
func (r RelationType) Reciprocal() RelationType {
	switch r {
	case RelWrittenBy:
		return RelWrite
	case RelWrite:
		return RelWrittenBy
	case RelPublishedBy:
		return RelPublish
	case RelPublish:
		return RelPublishedBy
	case RelTranslatedBy:
		return RelTranslate
	case RelTranslate:
		return RelTranslatedBy
	case RelBelongsTo:
		return RelContains
	case RelContains:
		return RelBelongsTo
	default:
		return ""
	}
}

// Relation is a directed edge between two entities.
type Relation struct {
	From string       `json:"from"`
	To   string       `json:"to"`
	Type RelationType `json:"type"`
}
