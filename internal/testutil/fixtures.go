package testutil

import (
	"embed"
)

//go:embed fixtures/*.json
var fixturesFS embed.FS

// LoadFixture loads a JSON fixture file by name.
func LoadFixture(name string) ([]byte, error) {
	return fixturesFS.ReadFile("fixtures/" + name)
}

// RegistryFixture returns a current-format registry with three entries.
// "torch" and "jax" share a project directory and a six-character id prefix.
func RegistryFixture() ([]byte, error) {
	return LoadFixture("registry.json")
}

// LegacyRegistryFixture returns a registry written without ids, with comments
// and trailing commas.
func LegacyRegistryFixture() ([]byte, error) {
	return LoadFixture("legacy_registry.json")
}
