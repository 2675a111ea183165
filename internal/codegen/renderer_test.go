package codegen

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/roach88/idlcpp/internal/flavor"
	"github.com/roach88/idlcpp/internal/ir"
)

const (
	accountsDir     = "Source/SolanaProgram/Public/SolanaProgram/Accounts/"
	typesDir        = "Source/SolanaProgram/Public/SolanaProgram/Types/"
	instructionsDir = "Source/SolanaProgram/Public/SolanaProgram/Instructions/"
)

func mustGet(t *testing.T, m *RenderMap, path string) string {
	t.Helper()
	content, ok := m.Get(path)
	require.True(t, ok, "missing %s; have %v", path, m.Paths())
	return content
}

func newTestRenderer(t *testing.T, opts Options) *Renderer {
	t.Helper()
	r, err := NewRenderer(opts)
	require.NoError(t, err)
	return r
}

func TestNewRendererDefaults(t *testing.T) {
	r := newTestRenderer(t, Options{})
	assert.Equal(t, DefaultPlugin, r.Plugin())
	assert.Equal(t, flavor.Unreal5, r.Flavor().Name)

	r = newTestRenderer(t, Options{Plugin: "my-game client", Flavor: "STL20"})
	assert.Equal(t, "MyGameClient", r.Plugin())
	assert.Equal(t, flavor.STL20, r.Flavor().Name)
}

func TestNewRendererUnknownFlavor(t *testing.T) {
	_, err := NewRenderer(Options{Flavor: "qt6"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, flavor.ErrUnknownFlavor))
	assert.Contains(t, errors.FlattenHints(err), "unreal5")
}

func TestRenderRootEmpty(t *testing.T) {
	m, err := newTestRenderer(t, Options{}).RenderRoot(&ir.RootNode{})
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())

	_, err = newTestRenderer(t, Options{}).RenderRoot(nil)
	assert.Error(t, err)
}

func TestRenderRootUnrealScaffold(t *testing.T) {
	m := renderVault(t, Options{})

	plugin := mustGet(t, m, "SolanaProgram.uplugin")
	assert.Contains(t, plugin, `"Version": 201,`)
	assert.Contains(t, plugin, `"VersionName": "0.2.1",`)
	assert.Contains(t, plugin, `"Description": "Client for the Vault Solana program",`)

	build := mustGet(t, m, "Source/SolanaProgram/SolanaProgram.Build.cs")
	assert.Contains(t, build, "public class SolanaProgram : ModuleRules")

	header := mustGet(t, m, "Source/SolanaProgram/Public/SolanaProgram.h")
	assert.Contains(t, header, "class FSolanaProgramModule : public IModuleInterface")
	assert.Contains(t, header, "TArray<uint8> ToLeBytes(T Value)")

	source := mustGet(t, m, "Source/SolanaProgram/Private/SolanaProgram.cpp")
	assert.Contains(t, source, "IMPLEMENT_MODULE(FSolanaProgramModule, SolanaProgram)")
}

func TestRenderRootSTLScaffold(t *testing.T) {
	m := renderVault(t, Options{Flavor: flavor.STL20, Plugin: "VaultClient"})

	cmake := mustGet(t, m, "CMakeLists.txt")
	assert.Contains(t, cmake, "project(VaultClient VERSION 0.2.1 LANGUAGES CXX)")
	assert.Contains(t, cmake, "add_library(VaultClient ${VAULT_CLIENT_SOURCES})")

	vcpkg := mustGet(t, m, "vcpkg.json")
	assert.Contains(t, vcpkg, `"name": "vault-client",`)
	assert.Contains(t, vcpkg, `"version-semver": "0.2.1",`)

	assert.Contains(t, mustGet(t, m, "Source/VaultClient/Private/VaultClient.cpp"), `return "0.2.1";`)
	assert.True(t, m.Has("Source/VaultClient/Public/VaultClient/Accounts/Vault.h"))
}

func TestRenderRootIsDeterministic(t *testing.T) {
	a := renderVault(t, Options{})
	b := renderVault(t, Options{})
	assert.Equal(t, a.Paths(), b.Paths())
	assert.Equal(t, a.Digest(), b.Digest())
	assert.NotEqual(t, a.Digest(), renderVault(t, Options{Flavor: flavor.STL20}).Digest())
}

func TestRenderAccountOmitsOwnHeader(t *testing.T) {
	m := renderVault(t, Options{})
	vault := mustGet(t, m, accountsDir+"Vault.h")
	assert.NotContains(t, vault, `#include "SolanaProgram/Accounts/Vault.h"`)
	assert.Contains(t, vault, `#include "SolanaProgram/Types/VaultState.h"`)
}

func TestRenderDefinedTypeOmitsOwnHeader(t *testing.T) {
	root := &ir.RootNode{Program: &ir.ProgramNode{
		Name:      "tree",
		PublicKey: systemProgram,
		DefinedTypes: []*ir.DefinedTypeNode{{
			Name: "node",
			Type: &ir.StructTypeNode{Fields: []*ir.StructFieldTypeNode{
				field("children", &ir.ArrayTypeNode{
					Item:  &ir.DefinedTypeLinkNode{Name: "node"},
					Count: &ir.PrefixedCountNode{Prefix: ir.Number(ir.U32)},
				}),
			}},
		}},
	}}
	m, err := newTestRenderer(t, Options{}).RenderRoot(root)
	require.NoError(t, err)

	node := mustGet(t, m, typesDir+"Node.h")
	assert.NotContains(t, node, "SolanaProgram/Types/Node.h")
	assert.Contains(t, node, "TArray<FNode> Children;")
}

func TestRenderDefinedTypeAlias(t *testing.T) {
	root := &ir.RootNode{Program: &ir.ProgramNode{
		Name:      "bank",
		PublicKey: systemProgram,
		DefinedTypes: []*ir.DefinedTypeNode{
			{Name: "lamports", Type: ir.Number(ir.U64)},
			{Name: "hash", Type: &ir.ArrayTypeNode{Item: ir.Number(ir.U8), Count: &ir.FixedCountNode{Value: 32}}},
		},
	}}
	m, err := newTestRenderer(t, Options{}).RenderRoot(root)
	require.NoError(t, err)

	lamports := mustGet(t, m, typesDir+"Lamports.h")
	assert.Contains(t, lamports, "using FLamports = uint64;")
	assert.NotContains(t, lamports, "serialize(")

	hash := mustGet(t, m, typesDir+"Hash.h")
	assert.Contains(t, hash, "using FHash = TStaticArray<uint8, 32>;")
	assert.Contains(t, hash, `#include "Containers/StaticArray.h"`)
}

func TestRenderInstructionConflictWarning(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	m := renderVault(t, Options{Logger: zap.New(core)})

	withdraw := mustGet(t, m, instructionsDir+"Withdraw.h")
	assert.Contains(t, withdraw, "FPublicKey Amount, uint64 amount_arg)")
	assert.Contains(t, withdraw, "Args.Amount = amount_arg;")

	entries := logs.FilterMessage("instruction accounts and arguments share names; arguments are suffixed with _arg").All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "withdraw", ctx["instruction"])
	assert.Equal(t, []interface{}{"amount"}, ctx["conflicts"])
	assert.Equal(t, "unreal5", ctx["flavor"])
}

func TestConflicts(t *testing.T) {
	ix := &ir.InstructionNode{
		Accounts: []*ir.InstructionAccountNode{{Name: "mint"}, {Name: "owner"}, {Name: "amount"}},
		Arguments: []*ir.InstructionArgumentNode{
			{Name: "amount"}, {Name: "decimals"}, {Name: "mint"}, {Name: "amount"},
		},
	}
	assert.Equal(t, []string{"amount", "mint"}, Conflicts(ix))
	assert.Empty(t, Conflicts(&ir.InstructionNode{Arguments: []*ir.InstructionArgumentNode{{Name: "x"}}}))
}

func TestRenderInstructionSignerEither(t *testing.T) {
	root := &ir.RootNode{Program: &ir.ProgramNode{
		Name:      "memo",
		PublicKey: systemProgram,
		Instructions: []*ir.InstructionNode{{
			Name: "addMemo",
			Accounts: []*ir.InstructionAccountNode{
				{Name: "author", SignerEither: true},
				{Name: "log", IsWritable: true},
			},
		}},
	}}
	m, err := newTestRenderer(t, Options{}).RenderRoot(root)
	require.NoError(t, err)

	memo := mustGet(t, m, instructionsDir+"AddMemo.h")
	assert.Contains(t, memo, "FAddMemoInstruction(FPublicKey Author, FPublicKey Log, bool AuthorIsSigner)")
	assert.Contains(t, memo, "Accounts.Add(FAccountMeta(Author, AuthorIsSigner, false));")
	assert.Contains(t, memo, "struct FAddMemoInstructionData\n{\n};")
	assert.Contains(t, memo, "return Serializer(); }")
}

func TestRenderParentInstructions(t *testing.T) {
	root := &ir.RootNode{Program: &ir.ProgramNode{
		Name:      "multi",
		PublicKey: systemProgram,
		Instructions: []*ir.InstructionNode{{
			Name: "admin",
			SubInstructions: []*ir.InstructionNode{
				{Name: "pause"},
				{Name: "resume"},
			},
		}},
	}}

	m, err := newTestRenderer(t, Options{}).RenderRoot(root)
	require.NoError(t, err)
	assert.False(t, m.Has(instructionsDir+"Admin.h"))
	assert.True(t, m.Has(instructionsDir+"Pause.h"))
	assert.True(t, m.Has(instructionsDir+"Resume.h"))

	m, err = newTestRenderer(t, Options{RenderParentInstructions: true}).RenderRoot(root)
	require.NoError(t, err)
	assert.True(t, m.Has(instructionsDir+"Admin.h"))
}

func TestRenderInternalEntities(t *testing.T) {
	root := loadVault(t)
	root.Program.Accounts[0].Internal = true
	root.Program.DefinedTypes[1].Internal = true

	r := newTestRenderer(t, Options{})
	m, err := r.RenderRoot(root)
	require.NoError(t, err)
	assert.False(t, m.Has(accountsDir+"Vault.h"))
	assert.False(t, m.Has(typesDir+"DepositRecord.h"))
	assert.True(t, m.Has(typesDir+"VaultState.h"))
	assert.Equal(t, Stats{Programs: 1, DefinedTypes: 1, Instructions: 2, Errors: 2}, r.Stats(root))

	r = newTestRenderer(t, Options{IncludeInternal: true})
	m, err = r.RenderRoot(root)
	require.NoError(t, err)
	assert.True(t, m.Has(accountsDir+"Vault.h"))
	assert.True(t, m.Has(typesDir+"DepositRecord.h"))
	assert.Equal(t, Stats{Programs: 1, Accounts: 1, DefinedTypes: 2, Instructions: 2, Errors: 2}, r.Stats(root))
}

func TestRenderInternalProgram(t *testing.T) {
	root := loadVault(t)
	root.Program.Internal = true
	m, err := newTestRenderer(t, Options{}).RenderRoot(root)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())
}

func TestRenderDependencyMap(t *testing.T) {
	m := renderVault(t, Options{DependencyMap: map[string]string{
		"Borsh/Borsh.h": "ThirdParty/Borsh/Borsh.h",
	}})
	record := mustGet(t, m, typesDir+"DepositRecord.h")
	assert.Contains(t, record, `#include "ThirdParty/Borsh/Borsh.h"`)
	assert.NotContains(t, record, `#include "Borsh/Borsh.h"`)
}

func TestRenderAccountMissingPda(t *testing.T) {
	root := loadVault(t)
	root.Program.Pdas = nil

	_, err := newTestRenderer(t, Options{}).RenderRoot(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `account vault: pda "vault" not found`)
	assert.Contains(t, errors.FlattenHints(err), "pdas list")
}

func TestRenderUnsupportedFieldNamesEntity(t *testing.T) {
	root := loadVault(t)
	s := root.Program.DefinedTypes[1].Type.(*ir.StructTypeNode)
	s.Fields = append(s.Fields, field("tags", &ir.SetTypeNode{Item: ir.Number(ir.U8), Count: &ir.RemainderCountNode{}}))

	_, err := newTestRenderer(t, Options{}).RenderRoot(root)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupported))
	assert.Contains(t, err.Error(), "program vault: defined type depositRecord: field tags")
}

func TestRenderDuplicatePaths(t *testing.T) {
	account := func() *ir.AccountNode {
		return &ir.AccountNode{
			Name: "config",
			Data: &ir.StructTypeNode{Fields: []*ir.StructFieldTypeNode{field("x", ir.Number(ir.U8))}},
		}
	}
	root := &ir.RootNode{
		Program: &ir.ProgramNode{Name: "a", PublicKey: systemProgram, Accounts: []*ir.AccountNode{account()}},
		AdditionalPrograms: []*ir.ProgramNode{
			{Name: "b", PublicKey: "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA", Accounts: []*ir.AccountNode{account()}},
		},
	}
	_, err := newTestRenderer(t, Options{}).RenderRoot(root)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicatePath))
}

func TestRenderMultipleProgramsDescription(t *testing.T) {
	root := &ir.RootNode{
		Program: &ir.ProgramNode{Name: "alpha", PublicKey: systemProgram},
		AdditionalPrograms: []*ir.ProgramNode{
			{Name: "beta", PublicKey: "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA", Version: "2.0.0"},
		},
	}
	m, err := newTestRenderer(t, Options{}).RenderRoot(root)
	require.NoError(t, err)

	plugin := mustGet(t, m, "SolanaProgram.uplugin")
	assert.Contains(t, plugin, `"Description": "Client for the Alpha, Beta Solana programs",`)
	assert.Contains(t, plugin, `"VersionName": "2.0.0",`)

	programs := mustGet(t, m, "Source/SolanaProgram/Public/SolanaProgram/Programs.h")
	assert.Contains(t, programs, "inline const FPublicKey GAlphaID = ")
	assert.Contains(t, programs, "inline const FPublicKey GBetaID = ")
}

func TestRenderInvalidVersionFallsBack(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	root := loadVault(t)
	root.Program.Version = "not-a-version"

	m, err := newTestRenderer(t, Options{Logger: zap.New(core)}).RenderRoot(root)
	require.NoError(t, err)
	assert.Contains(t, mustGet(t, m, "SolanaProgram.uplugin"), `"VersionName": "1.0.0",`)
	assert.Equal(t, 1, logs.FilterMessage("ignoring program version").Len())
}

func TestRenderProgramInvalidKey(t *testing.T) {
	root := &ir.RootNode{Program: &ir.ProgramNode{Name: "bad", PublicKey: "not a key"}}
	_, err := newTestRenderer(t, Options{}).RenderRoot(root)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidValue))
}

func TestRenderAccountConstantNumberSeed(t *testing.T) {
	root := &ir.RootNode{Program: &ir.ProgramNode{
		Name:      "game",
		PublicKey: systemProgram,
		Accounts: []*ir.AccountNode{{
			Name: "slot",
			Data: &ir.StructTypeNode{Fields: []*ir.StructFieldTypeNode{field("x", ir.Number(ir.U8))}},
			Pda:  &ir.PdaLinkNode{Name: "slot"},
		}},
		Pdas: []*ir.PdaNode{{
			Name: "slot",
			Seeds: []ir.PdaSeedNode{
				&ir.ConstantPdaSeedNode{
					Type:  ir.Number(ir.U16),
					Value: &ir.ConstantValueNode{Type: ir.Number(ir.U16), Value: num("7")},
				},
				&ir.VariablePdaSeedNode{Name: "index", Type: ir.Number(ir.U32)},
			},
		}},
	}}
	m, err := newTestRenderer(t, Options{}).RenderRoot(root)
	require.NoError(t, err)

	slot := mustGet(t, m, accountsDir+"Slot.h")
	assert.Contains(t, slot, "inline TArray<TArray<uint8>> SlotSeeds(uint32 Index)")
	assert.Contains(t, slot, "Seeds.Add(ToSeed(ToLeBytes<uint16>(7)));")
	assert.Contains(t, slot, "Seeds.Add(ToSeed(Index));")
	assert.NotContains(t, slot, "SolanaProgram/Programs.h")
}

func TestRenderAccountBareNumberSeeds(t *testing.T) {
	seeded := func(typ *ir.NumberTypeNode, value string) *ir.RootNode {
		return &ir.RootNode{Program: &ir.ProgramNode{
			Name:      "game",
			PublicKey: systemProgram,
			Accounts: []*ir.AccountNode{{
				Name: "slot",
				Data: &ir.StructTypeNode{Fields: []*ir.StructFieldTypeNode{field("x", ir.Number(ir.U8))}},
				Pda:  &ir.PdaLinkNode{Name: "slot"},
			}},
			Pdas: []*ir.PdaNode{{
				Name: "slot",
				Seeds: []ir.PdaSeedNode{
					&ir.ConstantPdaSeedNode{Type: typ, Value: num(value)},
					&ir.VariablePdaSeedNode{Name: "owner", Type: &ir.PublicKeyTypeNode{}},
				},
			}},
		}}
	}
	tests := []struct {
		name   string
		flavor string
		typ    *ir.NumberTypeNode
		value  string
		want   string
	}{
		{"u8", flavor.Unreal5, ir.Number(ir.U8), "1", "Seeds.Add(ToSeed(ToLeBytes<uint8>(1)));"},
		{"u64", flavor.Unreal5, ir.Number(ir.U64), "42", "Seeds.Add(ToSeed(ToLeBytes<uint64>(42)));"},
		{"big endian", flavor.Unreal5, &ir.NumberTypeNode{Format: ir.U16, Endian: ir.BigEndian}, "7", "Seeds.Add(ToSeed(ToBeBytes<uint16>(7)));"},
		{"stl u64", flavor.STL20, ir.Number(ir.U64), "42", "Seeds.push_back(ToSeed(ToLeBytes<std::uint64_t>(42)));"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := newTestRenderer(t, Options{Flavor: tt.flavor}).RenderRoot(seeded(tt.typ, tt.value))
			require.NoError(t, err)
			slot := mustGet(t, m, accountsDir+"Slot.h")
			assert.Contains(t, slot, tt.want)
			assert.Contains(t, slot, `#include "SolanaProgram.h"`)
		})
	}
}

func TestRenderInstructionArrayArgument(t *testing.T) {
	root := &ir.RootNode{Program: &ir.ProgramNode{
		Name:      "ledger",
		PublicKey: systemProgram,
		Instructions: []*ir.InstructionNode{{
			Name:     "commit",
			Accounts: []*ir.InstructionAccountNode{{Name: "entry", IsWritable: true}},
			Arguments: []*ir.InstructionArgumentNode{{
				Name: "hash",
				Type: &ir.ArrayTypeNode{Item: ir.Number(ir.U8), Count: &ir.FixedCountNode{Value: 32}},
			}},
		}},
	}}
	m, err := newTestRenderer(t, Options{}).RenderRoot(root)
	require.NoError(t, err)

	commit := mustGet(t, m, instructionsDir+"Commit.h")
	assert.Contains(t, commit, "\tTStaticArray<uint8, 32> Hash;\n")
	assert.Contains(t, commit, "FCommitInstruction(FPublicKey Entry, TStaticArray<uint8, 32> hash)")
	assert.Contains(t, commit, "Args.Hash = hash;")
	assert.NotContains(t, commit, "Hash[32]")
	assert.Contains(t, commit, `#include "Containers/StaticArray.h"`)
}

func TestRenderInstructionOmittedArgumentAddsNoIncludes(t *testing.T) {
	tests := []struct {
		flavor string
		inc    string
	}{
		{flavor.Unreal5, `#include "Containers/StaticArray.h"`},
		{flavor.STL20, "#include <array>"},
	}
	for _, tt := range tests {
		t.Run(tt.flavor, func(t *testing.T) {
			m := renderVault(t, Options{Flavor: tt.flavor})
			deposit := mustGet(t, m, instructionsDir+"Deposit.h")
			assert.Contains(t, deposit, " Discriminator[8] = {242, 35, 198, 137, 82, 225, 242, 182};")
			assert.NotContains(t, deposit, tt.inc)
		})
	}
}

func TestRenderModuleHeaderStringSeeds(t *testing.T) {
	unreal := mustGet(t, renderVault(t, Options{}), "Source/SolanaProgram/Public/SolanaProgram.h")
	assert.Contains(t, unreal, "inline TArray<uint8> ToSeed(const FString& Value)")

	stl := mustGet(t, renderVault(t, Options{Flavor: flavor.STL20}), "Source/SolanaProgram/Public/SolanaProgram.h")
	assert.Contains(t, stl, "inline std::vector<std::uint8_t> ToSeed(const std::string& Value)")
	assert.Contains(t, stl, "#include <string>")
}
