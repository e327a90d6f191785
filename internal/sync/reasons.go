package sync

// Reason is the verdict of the change detector.
type Reason int

const (
	// ReasonUpToDate means the stored database matches both catalogs
	ReasonUpToDate Reason = iota
	// ReasonNoDatabase means there is no usable stored database
	ReasonNoDatabase
	// ReasonFormatChanged means the stored database has a different format version
	ReasonFormatChanged
	// ReasonGuildCatalogChanged means the guild identifier set changed
	ReasonGuildCatalogChanged
	// ReasonHomesteadCatalogChanged means the homestead identifier set changed
	ReasonHomesteadCatalogChanged
)

var reasonNames = map[Reason]string{
	ReasonUpToDate:                "up-to-date",
	ReasonNoDatabase:              "no-database",
	ReasonFormatChanged:           "format-changed",
	ReasonGuildCatalogChanged:     "guild-catalog-changed",
	ReasonHomesteadCatalogChanged: "homestead-catalog-changed",
}

// String returns the reason as a stable kebab-case identifier.
func (r Reason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return "unknown"
}

// NeedsRebuild reports whether the reason requires fetching metadata and rebuilding.
func (r Reason) NeedsRebuild() bool {
	return r != ReasonUpToDate
}
