// Package harness runs generator scenarios: an IDL, the options to render it
// with, and assertions about the files that come out.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: vault_unreal
//	description: "Vault accounts render with the Unreal flavor"
//	idl: ../idls/vault.json
//	flavor: unreal5
//	plugin: VaultClient
//	assertions:
//	  - type: file_exists
//	    path: Source/VaultClient/Public/VaultClient/Accounts/Vault.h
//	  - type: file_contains
//	    path: Source/VaultClient/Public/VaultClient/Accounts/Vault.h
//	    text: "struct FVault"
//	  - type: file_count
//	    path: "Source/*/Public/*/Instructions/*.h"
//	    count: 2
//
// The idl path is resolved relative to the scenario file. A scenario that
// sets expect_error must fail to load or render with a message containing
// that text; file assertions are then skipped.
//
// # Assertion Types
//
//   - file_exists: the render map has a file at path
//   - file_absent: the render map has no file at path
//   - file_contains: the file at path contains text
//   - file_lacks: the file at path does not contain text
//   - file_count: exactly count paths match the glob in path
//
// # Golden Files
//
// RunWithGolden stores the whole render map as a txtar archive under
// testdata/golden/{scenario.Name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
