package config

// DefaultCatalogTOML exposes the embedded catalog for tests
var DefaultCatalogTOML = defaultCatalogTOML
