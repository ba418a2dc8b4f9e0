// Package configtree holds the application's layered configuration tree and
// the pipeline of loaders that assembles it.
//
// A Tree is a nested map of JSON-like nodes. Loaders are applied in ascending
// Order, each one receiving the tree produced by the previous loader:
//
//	FileLoader        (FileOrder)        YAML files, deep-merged in order
//	EnvLoader         (EnvOrder)         PREFIX_SECTION__KEY=value variables
//	PropertiesLoader  (PropertiesOrder)  explicit key.path=value overrides
//	...               (> PropertiesOrder) extension loaders, e.g. awssecrets
//
// Property-style writes go through MergeProperties: each dotted key is a leaf
// write, intermediate maps are created on demand and siblings are preserved.
//
// Consumers read typed sections with Decode, which is weakly typed so that
// string values produced by property overrides decode into numeric and
// boolean fields.
package configtree
