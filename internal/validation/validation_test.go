package validation

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "valid email", email: "ann@example.com", wantErr: false},
		{name: "valid with subdomain", email: "a.b@mail.example.org", wantErr: false},
		{name: "empty", email: "", wantErr: true},
		{name: "no at sign", email: "annexample.com", wantErr: true},
		{name: "no domain dot", email: "ann@example", wantErr: true},
		{name: "contains space", email: "ann @example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("longenough1"))
	assert.Error(t, ValidatePassword(""))
	assert.Error(t, ValidatePassword("short"))
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Ann"))
	assert.Error(t, ValidateName(""))
	assert.Error(t, ValidateName(strings.Repeat("x", MaxNameLen+1)))
}

func TestValidateBookID(t *testing.T) {
	assert.NoError(t, ValidateBookID(uuid.New().String()))
	assert.Error(t, ValidateBookID(""))
	assert.Error(t, ValidateBookID("not-a-uuid"))
	assert.Error(t, ValidateBookID("12345"))
}

func TestValidateBookFields(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		author  string
		wantErr bool
	}{
		{name: "valid", title: "1984", author: "George Orwell", wantErr: false},
		{name: "missing title", title: "", author: "George Orwell", wantErr: true},
		{name: "missing author", title: "1984", author: "", wantErr: true},
		{name: "title too long", title: strings.Repeat("x", MaxTitleLen+1), author: "a", wantErr: true},
		{name: "author too long", title: "1984", author: strings.Repeat("x", MaxAuthorLen+1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBookFields(tt.title, tt.author)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
