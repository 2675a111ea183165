package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWords(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"createMetadataAccount", []string{"create", "Metadata", "Account"}},
		{"create_metadata_account", []string{"create", "metadata", "account"}},
		{"my-plugin name", []string{"my", "plugin", "name"}},
		{"", nil},
		{"__x__", []string{"x"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Words(tt.in))
		})
	}
}

func TestConversions(t *testing.T) {
	tests := []struct {
		in                                     string
		pascal, camel, snake, kebab, title, cs string
	}{
		{
			in:     "createMetadataAccount",
			pascal: "CreateMetadataAccount",
			camel:  "createMetadataAccount",
			snake:  "create_metadata_account",
			kebab:  "create-metadata-account",
			title:  "Create Metadata Account",
			cs:     "CREATE_METADATA_ACCOUNT",
		},
		{
			in:     "amount",
			pascal: "Amount",
			camel:  "amount",
			snake:  "amount",
			kebab:  "amount",
			title:  "Amount",
			cs:     "AMOUNT",
		},
		{
			in:     "initialize_v2",
			pascal: "InitializeV2",
			camel:  "initializeV2",
			snake:  "initialize_v2",
			kebab:  "initialize-v2",
			title:  "Initialize V2",
			cs:     "INITIALIZE_V2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.pascal, Pascal(tt.in))
			assert.Equal(t, tt.camel, Camel(tt.in))
			assert.Equal(t, tt.snake, Snake(tt.in))
			assert.Equal(t, tt.kebab, Kebab(tt.in))
			assert.Equal(t, tt.title, Title(tt.in))
			assert.Equal(t, tt.cs, Constant(tt.in))
		})
	}
}

func TestPascalEmpty(t *testing.T) {
	assert.Equal(t, "", Pascal(""))
	assert.Equal(t, "", Camel(""))
}

func TestPascalNormalisesInput(t *testing.T) {
	// "e" + combining acute and the precomposed form are the same identifier.
	assert.Equal(t, Pascal("caf\u00e9"), Pascal("cafe\u0301"))
}
