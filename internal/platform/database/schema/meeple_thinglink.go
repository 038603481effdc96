package schema

// ThingLinkTable represents the 'meeple.thinglink' table
type ThingLinkTable struct {
	Table   string
	ThingID string
	Kind    string
	LinkID  string
}

// ThingLink is the schema definition for meeple.thinglink
var ThingLink = ThingLinkTable{
	Table:   "meeple.thinglink",
	ThingID: "thingid",
	Kind:    "kind",
	LinkID:  "linkid",
}
