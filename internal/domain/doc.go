// Package domain contains the core domain model for edugestor: measurement units,
// conversion relations, question templates and the errors shared by the engines.
//
// The domain is transport- and persistence-agnostic: it does not depend on YAML parsing,
// terminals or the filesystem. Infra/adapters map into/from these types.
package domain
