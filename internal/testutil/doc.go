// Package testutil provides test fixtures and utilities.
//
// # Test Environment
//
// NewTestEnv wires a temporary state directory, a mock command executor and
// a fixed hostname into app.Default, so command tests run without touching
// the user's registry or spawning processes:
//
//	env := testutil.NewTestEnv(t)
//	defer env.Cleanup()
//
//	project := env.CreateProject("ml")
//	entry := env.AddEnvironment("torch", project, "gpu*")
//
// # Fixtures
//
// Registry files are embedded using go:embed:
//
//	fixtures/registry.json         // current format
//	fixtures/legacy_registry.json  // no ids, JSONC comments and trailing commas
//
// Load them with RegistryFixture, LegacyRegistryFixture, or LoadFixture for
// raw access, and install one with TestEnv.WriteRegistry.
package testutil
