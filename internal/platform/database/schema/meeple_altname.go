package schema

// AltNameTable represents the 'meeple.altname' table
type AltNameTable struct {
	Table   string
	ThingID string
	Name    string
	Ordinal string
}

// AltName is the schema definition for meeple.altname
var AltName = AltNameTable{
	Table:   "meeple.altname",
	ThingID: "thingid",
	Name:    "name",
	Ordinal: "ordinal",
}
