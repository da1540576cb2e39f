package domain

// TargetName identifies one of the configured backing stores.
type TargetName string

const (
	TargetPostgres      TargetName = "postgres"
	TargetMySQL         TargetName = "mysql"
	TargetMongoDB       TargetName = "mongodb"
	TargetElasticsearch TargetName = "elasticsearch"
)

// Capabilities describes what a backing store can do. The four backends
// are heterogeneous; capability flags are fixed per target and selected
// at configuration time.
type Capabilities struct {
	StructuredQuery bool `json:"structured_query"`
	FullTextSearch  bool `json:"full_text_search"`
	Transactional   bool `json:"transactional"`
}

// targetCapabilities maps each known target to its fixed capability set.
var targetCapabilities = map[TargetName]Capabilities{
	TargetPostgres:      {StructuredQuery: true, Transactional: true},
	TargetMySQL:         {StructuredQuery: true, Transactional: true},
	TargetMongoDB:       {StructuredQuery: true},
	TargetElasticsearch: {FullTextSearch: true},
}

// CapabilitiesFor returns the capability set for a target.
// Parameters:
//   - name: target name.
// Returns:
//   - Capabilities: capability flags; zero value for unknown targets.
func CapabilitiesFor(name TargetName) Capabilities {
	return targetCapabilities[name]
}

// KnownTargets lists the supported target names in configuration order.
func KnownTargets() []TargetName {
	return []TargetName{TargetPostgres, TargetMySQL, TargetMongoDB, TargetElasticsearch}
}
