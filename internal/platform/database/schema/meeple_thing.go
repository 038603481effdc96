package schema

// ThingTable represents the 'meeple.thing' table
type ThingTable struct {
	Table         string
	ID            string
	BggID         string
	Kind          string
	Name          string
	Description   string
	Thumbnail     string
	Image         string
	YearPublished string
	MinPlayers    string
	MaxPlayers    string
	MinDuration   string
	MaxDuration   string
	Duration      string
	CreatedAt     string
	RetrievedAt   string
}

// Thing is the schema definition for meeple.thing
var Thing = ThingTable{
	Table:         "meeple.thing",
	ID:            "id",
	BggID:         "bggid",
	Kind:          "kind",
	Name:          "name",
	Description:   "description",
	Thumbnail:     "thumbnail",
	Image:         "image",
	YearPublished: "yearpublished",
	MinPlayers:    "minplayers",
	MaxPlayers:    "maxplayers",
	MinDuration:   "minduration",
	MaxDuration:   "maxduration",
	Duration:      "duration",
	CreatedAt:     "createdat",
	RetrievedAt:   "retrievedat",
}

// DataColumns lists the columns written from parsed upstream data, in insert order.
func (t ThingTable) DataColumns() []string {
	return []string{
		t.BggID, t.Kind, t.Name, t.Description, t.Thumbnail, t.Image,
		t.YearPublished, t.MinPlayers, t.MaxPlayers, t.MinDuration, t.MaxDuration, t.Duration,
	}
}
