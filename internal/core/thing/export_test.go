package thing

// LinkRows exposes linkRows to the external test package.
var LinkRows = linkRows
