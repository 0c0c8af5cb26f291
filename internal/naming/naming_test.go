package naming

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPascal(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"billing_address", "BillingAddress"},
		{"user-profile", "UserProfile"},
		{"userId", "UserId"},
		{"  spaced out  ", "SpacedOut"},
		{"already", "Already"},
		{"", ""},
		{"---", ""},
		{"get customer", "GetCustomer"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Pascal(tt.in))
		})
	}
}

func TestIsIdentifier(t *testing.T) {
	assert.True(t, IsIdentifier("getCustomer"))
	assert.True(t, IsIdentifier("_private"))
	assert.True(t, IsIdentifier("v2"))
	assert.False(t, IsIdentifier("2fa"))
	assert.False(t, IsIdentifier("get-customer"))
	assert.False(t, IsIdentifier(""))
}

func TestTypeBase(t *testing.T) {
	assert.Equal(t, "GetCustomer", TypeBase("getCustomer"))
	assert.Equal(t, "ItemGetCustomer", TypeBase("get-customer"))
	assert.Equal(t, DefaultBaseName, TypeBase(""))
	assert.Equal(t, DefaultBaseName, TypeBase("///"))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "IUser", Format("I{{name}}", "User", DefaultNameFormat))
	assert.Equal(t, "UserResponse", Format("", "User", DefaultNameFormat))
	assert.Equal(t, "UserDto", Format("{{name}}Dto", "User", DefaultNameFormat))
	assert.Equal(t, "types", Format("types", "User", DefaultFileNameFormat))
	assert.True(t, ValidPattern("T{{name}}"))
	assert.False(t, ValidPattern("Thing"))
}

func TestFromURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://api.example.com/v1/customers", "Customers"},
		{"https://api.example.com/v1/get-customer/", "GetCustomer"},
		{"https://api.example.com/", DefaultBaseName},
		{"https://api.example.com/users?page=2", "Users"},
		{"https://api.example.com/user%20list", "UserList"},
		{"https://api.example.com/users/42", "Users"},
		{"https://api.example.com/orders/3f2a9c1e-0b7d-4e8a-9c61-2d5e7f3a1b90/items", "Items"},
		{"https://api.example.com/orders/3F2A9C1E-0B7D-4E8A-9C61-2D5E7F3A1B90", "Orders"},
		{"https://api.example.com/blobs/deadbeefcafe", "Blobs"},
		{"https://api.example.com/42", "42"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			u, err := url.Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, FromURL(u))
			assert.Equal(t, tt.want, FromRawURL(tt.raw))
		})
	}

	assert.Equal(t, DefaultBaseName, FromURL(nil))
	assert.Equal(t, DefaultBaseName, FromRawURL("://bad"))
}

func TestTypeNameAndFileName(t *testing.T) {
	assert.Equal(t, "GetCustomerResponse", TypeName("getCustomer", ""))
	assert.Equal(t, "IGetCustomer", TypeName("getCustomer", "I{{name}}"))
	assert.Equal(t, "getCustomer", FileName("getCustomer", ""))
	assert.Equal(t, "getCustomer.types", FileName("getCustomer", "{{name}}.types"))
	assert.Equal(t, "Response", FileName("", ""))
}

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name string
		url  string
		body string
		want string
	}{
		{"rest", "https://api.example.com/v1/orders", "", "Orders"},
		{"rest with json body", "https://api.example.com/search", `{"q":"x"}`, "Search"},
		{"graphql operation", "https://api.example.com/graphql", `{"query":"query GetViewer { viewer { id } }"}`, "GetViewer"},
		{"graphql shorthand", "https://api.example.com/graphql", `{"query":"{ orders { id } }"}`, "orders"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromRequest(tt.url, []byte(tt.body)))
		})
	}
}
