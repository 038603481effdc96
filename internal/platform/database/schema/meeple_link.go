package schema

// LinkTable represents the 'meeple.link' table
type LinkTable struct {
	Table     string
	ID        string
	Kind      string
	BggID     string
	Name      string
	CreatedAt string
}

// Link is the schema definition for meeple.link
var Link = LinkTable{
	Table:     "meeple.link",
	ID:        "id",
	Kind:      "kind",
	BggID:     "bggid",
	Name:      "name",
	CreatedAt: "createdat",
}
